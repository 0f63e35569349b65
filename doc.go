// Package facet is a resource-first API framework for Go. Business logic
// is written once, as typed operations on named resources, and surface
// adapters render those resources onto a wire protocol — REST today,
// an RPC envelope tomorrow — without the logic ever seeing transport types.
//
// The core operation signature removes http.ResponseWriter and *http.Request:
//
//	type Op[In, Out any] func(ctx context.Context, in *In) (*Out, error)
//
// Resources are declared on a Registry and operations attached with
// package-level generic functions:
//
//	reg := facet.New(facet.WithTitle("Task API"), facet.WithVersion("1.0.0"))
//	tasks := reg.Resource("tasks")
//	facet.List[ListIn, ListOut](tasks, listTasks)
//	facet.Create[CreateIn, Task](tasks, createTask)
//	facet.Action[CompleteIn, Task](tasks, "complete", completeTask)
//
// Input types use struct tags for parameter binding and a Body field for
// request bodies:
//
//	type CreateIn struct {
//	    Project string `query:"project"`
//	    Body    struct {
//	        Title string `json:"title" required:"true"`
//	    }
//	}
//
// Adapters mount the same registry onto different wire surfaces:
//
//	rest := facet.NewREST(reg)                 // GET /tasks, POST /tasks, ...
//	rpc := facet.NewRPC(reg)                   // {"call":"tasks.create",...}
//
// Representations are pluggable codecs negotiated per request: JSON, XML,
// and YAML are built in, and WithCodec registers more. Middleware uses the
// standard func(http.Handler) http.Handler signature, so the entire Go
// middleware ecosystem works natively.
package facet
