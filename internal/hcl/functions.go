package hcl

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// envFunc returns the value of an environment variable, or the optional
// second argument when it is unset.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		if v, ok := os.LookupEnv(args[0].AsString()); ok {
			return cty.StringVal(v), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return cty.StringVal(""), nil
	},
})

// newEvalContext builds the evaluation context for a job file located in
// jobDir.
func newEvalContext(jobDir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"job_dir": cty.StringVal(jobDir),
		},
		Functions: map[string]function.Function{
			"env":    envFunc,
			"format": stdlib.FormatFunc,
			"concat": stdlib.ConcatFunc,
			"range":  stdlib.RangeFunc,
			"upper":  stdlib.UpperFunc,
			"lower":  stdlib.LowerFunc,
		},
	}
}
