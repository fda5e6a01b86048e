package atomic

import "context"

// DefaultBin is the tool looked up on PATH when no binary is configured.
const DefaultBin = "atomic"

// Tool builds the atomic command lines and hands them to a Runner.
// Every command has the shape `<bin> <verb> [flags] <image>`.
type Tool struct {
	bin    string
	runner Runner
}

// NewTool creates a Tool. An empty bin falls back to DefaultBin.
func NewTool(bin string, runner Runner) *Tool {
	if bin == "" {
		bin = DefaultBin
	}
	return &Tool{bin: bin, runner: runner}
}

// Bin returns the binary the tool invokes.
func (t *Tool) Bin() string {
	return t.bin
}

// Version runs the capability probe `atomic -v`.
func (t *Tool) Version(ctx context.Context) (*Result, error) {
	return t.runner.Run(ctx, t.bin, "-v")
}

// ForceUpdate runs `atomic update --force <image>`.
func (t *Tool) ForceUpdate(ctx context.Context, image string) (*Result, error) {
	return t.runner.Run(ctx, t.bin, "update", "--force", image)
}

// Run runs `atomic run <image>`. The tool pulls the image if it is absent.
func (t *Tool) Run(ctx context.Context, image string) (*Result, error) {
	return t.runner.Run(ctx, t.bin, "run", image)
}

// Stop runs `atomic stop <image>`.
func (t *Tool) Stop(ctx context.Context, image string) (*Result, error) {
	return t.runner.Run(ctx, t.bin, "stop", image)
}
