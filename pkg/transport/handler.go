package transport

import (
	"context"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/router"
)

// CodeGenerator handles one code generation request. Implementations write
// fragments to w in order. An error returned before the first fragment is
// reported to the client as an HTTP error; after that, the stream is cut.
type CodeGenerator interface {
	GenerateCode(ctx context.Context, req *api.GenerationRequest, w FragmentWriter) error
}

// CodeGeneratorFunc is an adapter that allows using an ordinary function
// as a CodeGenerator.
type CodeGeneratorFunc func(ctx context.Context, req *api.GenerationRequest, w FragmentWriter) error

// GenerateCode calls f(ctx, req, w).
func (f CodeGeneratorFunc) GenerateCode(ctx context.Context, req *api.GenerationRequest, w FragmentWriter) error {
	return f(ctx, req, w)
}

// ModelLister reports the model catalogue.
type ModelLister interface {
	ListModels(ctx context.Context) []router.Model
}

// FragmentWriter delivers generated text to the client.
//
// WriteFragment sends one non-empty fragment and makes it visible to the
// client immediately. It returns an error once the client is gone.
type FragmentWriter interface {
	WriteFragment(ctx context.Context, text string) error

	// Flush ensures buffered data is sent to the client.
	Flush() error
}
