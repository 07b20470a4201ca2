// Package gridcfg loads the demo driver's task list from HCL: a sequence
// of "task" blocks, each naming which pre-registered demo task to run via
// its uses key.
package gridcfg

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/ctxlog"
)

// TaskSpec is the format-agnostic representation of one `task` block: which
// registered demo task to run, in file declaration order, with whatever
// typed arguments it was declared with.
type TaskSpec struct {
	Name string
	Uses string
	With cty.Value
}

type taskBlock struct {
	Name string    `hcl:"name,label"`
	Uses string    `hcl:"uses"`
	With cty.Value `hcl:"with,optional"`
}

type fileRoot struct {
	Tasks []*taskBlock `hcl:"task,block"`
}

// Load parses path as HCL and returns the declared task list in file order.
func Load(ctx context.Context, path string) ([]TaskSpec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("gridcfg: loading task list", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gridcfg: reading %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(raw, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("gridcfg: parsing %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("gridcfg: decoding %s: %w", path, diags)
	}

	specs := make([]TaskSpec, 0, len(root.Tasks))
	for _, blk := range root.Tasks {
		specs = append(specs, TaskSpec{Name: blk.Name, Uses: blk.Uses, With: blk.With})
	}
	logger.Debug("gridcfg: task list loaded", "count", len(specs))
	return specs, nil
}
