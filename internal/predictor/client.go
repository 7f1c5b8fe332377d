package predictor

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/power-toys/internal/component"
)

// #region client-struct
// Invoker is the part of a gRPC connection the client needs.
type Invoker interface {
	Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error
}

// Client wraps the gRPC connection to a remote loss predictor service.
// Requests and responses are google.protobuf.Struct messages.
type Client struct {
	conn    *grpc.ClientConn
	inv     Invoker
	timeout time.Duration
}

// #endregion client-struct

// #region constructor
// NewClient connects to the predictor gRPC server.
func NewClient(addr string, timeout time.Duration) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, inv: conn, timeout: timeout}, nil
}

// NewClientWithInvoker creates a Client with an injected invoker.
// Used for testing without a real gRPC connection.
func NewClientWithInvoker(inv Invoker, timeout time.Duration) *Client {
	return &Client{inv: inv, timeout: timeout}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion constructor

// #region predict
// Predict sends one operating point to the service.
func (c *Client) Predict(ctx context.Context, q component.Query) (component.Prediction, error) {
	req, err := structpb.NewStruct(map[string]any{
		"part_id":   q.PartID,
		"dc":        q.DC,
		"ripple":    q.Ripple,
		"frequency": q.Frequency,
		"series":    float64(q.Parts()),
	})
	if err != nil {
		return component.Prediction{}, fmt.Errorf("predict request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp := &structpb.Struct{}
	for attempts := 1; ; attempts++ {
		err = c.inv.Invoke(ctx, PredictMethod, req, resp)
		if !shouldRetry(err, attempts) || ctx.Err() != nil {
			break
		}
		log.Printf("predict %s: attempt %d failed, retrying: %v", q.PartID, attempts, err)
	}
	if err != nil {
		return component.Prediction{}, fmt.Errorf("predict rpc: %w", err)
	}
	return decodePrediction(resp)
}

func decodePrediction(s *structpb.Struct) (component.Prediction, error) {
	var p component.Prediction
	f := s.GetFields()
	if v, ok := f["saturated"]; ok {
		p.Saturated = v.GetBoolValue()
	}
	if p.Saturated {
		return p, nil
	}
	for name, dst := range map[string]*float64{
		"dc_loss":     &p.DCLoss,
		"ac_loss":     &p.ACLoss,
		"temperature": &p.Temperature,
	} {
		v, ok := f[name]
		if !ok {
			return component.Prediction{}, fmt.Errorf("predict response: missing %s", name)
		}
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
			return component.Prediction{}, fmt.Errorf("predict response: %s is not a number", name)
		}
		*dst = v.GetNumberValue()
	}
	return p, nil
}

func encodePrediction(p component.Prediction) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"dc_loss":     p.DCLoss,
		"ac_loss":     p.ACLoss,
		"temperature": p.Temperature,
		"saturated":   p.Saturated,
	})
}

// #endregion predict
