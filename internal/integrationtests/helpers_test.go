package integrationtests

import (
	"context"
	"time"

	"github.com/specialistvlad/clapgo/internal/defaults"
	"github.com/specialistvlad/clapgo/internal/model"
	"github.com/specialistvlad/clapgo/internal/registry"
	"github.com/specialistvlad/clapgo/internal/testutil"
	"github.com/specialistvlad/clapgo/internal/validation"
)

const regionEnv = "CLAPGO_IT_REGION"

// deployModule records calls to deploy.run, whose parameters cover every
// value source.
func deployModule() *testutil.RecordingModule {
	return &testutil.RecordingModule{
		Name: "deploy",
		Declare: func(c *registry.ComponentBuilder[*testutil.RecordingModule], record func(context.Context, *testutil.RecordingModule, *model.Call) error) {
			c.Alias("d")
			c.Verb("run", record).Default().
				Param("region", model.TypeString).Env(regionEnv).Provider(defaults.FromContext()).Default("eu").Done().
				Param("replicas", model.TypeInt).Provider(defaults.FromContext()).Default(1).
				Validate(validation.MoreThan(0)).Done().
				Param("timeout", model.TypeDuration).Provider(defaults.FromContext()).Default("30s").Done().
				Param("targets", model.TypeString).Separator(",").Provider(defaults.FromContext()).Done().
				Param("dry", model.TypeBool)
			c.Verb("status", record).Alias("st")
		},
	}
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
