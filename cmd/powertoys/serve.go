package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/power-toys/internal/predictor"
)

var serveListen string

var servePredictorCmd = &cobra.Command{
	Use:   "serve-predictor",
	Short: "Serve the Steinmetz inductor model over gRPC",
	Long: `serve-predictor exposes the closed-form inductor loss model of the
local catalog as a LossPredictor service, so other hosts can point
PREDICTOR_ADDR at it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		cfg := predictor.DefaultConfig()
		backend := predictor.NewCache(predictor.NewSteinmetz(cfg.Steinmetz, store), cfg.CacheSize)

		lis, err := net.Listen("tcp", serveListen)
		if err != nil {
			return fmt.Errorf("listen %s: %w", serveListen, err)
		}
		gs := grpc.NewServer()
		predictor.NewServer(backend).Register(gs)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Println("shutting down predictor service")
			gs.GracefulStop()
		}()

		log.Printf("predictor service listening on %s", lis.Addr())
		return gs.Serve(lis)
	},
}

func init() {
	servePredictorCmd.Flags().StringVar(&serveListen, "listen", envOr("PREDICTOR_LISTEN", "localhost:50051"), "listen address")
}
