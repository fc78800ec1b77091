package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/pkg/errors"
)

// warmPayload carries no request body, so a gateway function rejects it
// without doing any work.
var warmPayload = []byte(`{"text":"hello"}`)

// invokeAPI is the subset of the Lambda client the warmer uses.
type invokeAPI interface {
	Invoke(
		context.Context,
		*lambda.InvokeInput,
		...func(*lambda.Options),
	) (*lambda.InvokeOutput, error)
}

// invoke calls the target synchronously and fails if the call fails, the
// function reports an error, or its response is not JSON.
func (w *warmer) invoke(ctx context.Context, t target) error {
	ctx, cancel := context.WithTimeout(ctx, w.config.invokeTimeout)
	defer cancel()
	out, err := w.lambdaClient.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(t.ARN),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        warmPayload,
	})
	if err != nil {
		return errors.Wrapf(err, "error invoking %s", t.Name)
	}
	if out.FunctionError != nil {
		return errors.Errorf(
			"function %s returned error %s",
			t.Name,
			aws.ToString(out.FunctionError),
		)
	}
	if len(out.Payload) > 0 && !json.Valid(out.Payload) {
		return errors.Errorf("function %s returned a non-json response", t.Name)
	}
	return nil
}
