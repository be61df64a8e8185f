package sweep

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/trainsweep/internal/ctxlog"
	"github.com/vk/trainsweep/internal/fsutil"
)

// fileRoot is the decode target for the top-level blocks of any sweep file.
type fileRoot struct {
	Sweeps []*sweepBlock `hcl:"sweep,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// sweepBlock mirrors Sweep with pointer fields so that absent attributes
// keep their defaults instead of being zeroed.
type sweepBlock struct {
	Name         string         `hcl:"name,label"`
	Env          *string        `hcl:"env,optional"`
	Scenario     *string        `hcl:"scenario,optional"`
	Algorithm    *string        `hcl:"algorithm,optional"`
	Experiment   *string        `hcl:"experiment,optional"`
	NumAgents    *int           `hcl:"num_agents,optional"`
	NumLandmarks *int           `hcl:"num_landmarks,optional"`
	NumUnits     *int           `hcl:"num_units,optional"`
	Seeds        *int           `hcl:"seeds,optional"`
	Trainer      *trainerBlock  `hcl:"trainer,block"`
	Tracking     *trackingBlock `hcl:"tracking,block"`
	Report       *reportBlock   `hcl:"report,block"`
}

type trainerBlock struct {
	Python           *string `hcl:"python,optional"`
	Script           *string `hcl:"script,optional"`
	Device           *int    `hcl:"device,optional"`
	NTrainingThreads *int    `hcl:"n_training_threads,optional"`
	NRolloutThreads  *int    `hcl:"n_rollout_threads,optional"`
	NumMiniBatch     *int    `hcl:"num_mini_batch,optional"`
	EpisodeLength    *int    `hcl:"episode_length,optional"`
	NumEnvSteps      *int    `hcl:"num_env_steps,optional"`
	PPOEpoch         *int    `hcl:"ppo_epoch,optional"`
	UseReLU          *bool   `hcl:"use_relu,optional"`
	Gain             *string `hcl:"gain,optional"`
	LR               *string `hcl:"lr,optional"`
	CriticLR         *string `hcl:"critic_lr,optional"`
}

type trackingBlock struct {
	User         *string `hcl:"user,optional"`
	DashboardURL *string `hcl:"dashboard_url,optional"`
	Namespace    *string `hcl:"namespace,optional"`
	Timeout      *string `hcl:"timeout,optional"`
}

type reportBlock struct {
	Path *string `hcl:"path,optional"`
}

// Load parses the sweep file (or every .hcl file under a directory),
// merges the discovered sweep blocks, and returns the single resulting
// sweep with defaults applied and invariants validated.
func Load(ctx context.Context, path string) (*Sweep, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sweep loader started.", "path", path)

	files, err := fsutil.FindHCLFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered sweep files.", "count", len(files))

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environVal(),
		},
	}

	parser := hclparse.NewParser()
	blocks := map[string]*sweepBlock{}
	var order []string

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse sweep file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode sweep file %s: %w", file, diags)
		}

		for _, block := range root.Sweeps {
			if _, exists := blocks[block.Name]; exists {
				return nil, fmt.Errorf("duplicate sweep %q in %s", block.Name, file)
			}
			blocks[block.Name] = block
			order = append(order, block.Name)
		}
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("no sweep block found under %s", path)
	}
	if len(blocks) > 1 {
		return nil, fmt.Errorf("expected exactly one sweep, found %d (%s)", len(blocks), strings.Join(order, ", "))
	}

	s, err := fold(blocks[order[0]])
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Sweep loaded.", "sweep", s.Name, "seeds", s.Seeds)
	return s, nil
}

// fold overlays a decoded block onto the default configuration.
func fold(block *sweepBlock) (*Sweep, error) {
	s := Defaults()
	s.Name = block.Name

	setString(&s.Env, block.Env)
	setString(&s.Scenario, block.Scenario)
	setString(&s.Algorithm, block.Algorithm)
	setString(&s.Experiment, block.Experiment)
	setInt(&s.NumAgents, block.NumAgents)
	setInt(&s.NumLandmarks, block.NumLandmarks)
	setInt(&s.NumUnits, block.NumUnits)
	setInt(&s.Seeds, block.Seeds)

	if t := block.Trainer; t != nil {
		setString(&s.Trainer.Python, t.Python)
		setString(&s.Trainer.Script, t.Script)
		setInt(&s.Trainer.Device, t.Device)
		setInt(&s.Trainer.NTrainingThreads, t.NTrainingThreads)
		setInt(&s.Trainer.NRolloutThreads, t.NRolloutThreads)
		setInt(&s.Trainer.NumMiniBatch, t.NumMiniBatch)
		setInt(&s.Trainer.EpisodeLength, t.EpisodeLength)
		setInt(&s.Trainer.NumEnvSteps, t.NumEnvSteps)
		setInt(&s.Trainer.PPOEpoch, t.PPOEpoch)
		if t.UseReLU != nil {
			s.Trainer.UseReLU = *t.UseReLU
		}
		setString(&s.Trainer.Gain, t.Gain)
		setString(&s.Trainer.LR, t.LR)
		setString(&s.Trainer.CriticLR, t.CriticLR)
	}

	if tr := block.Tracking; tr != nil {
		setString(&s.Tracking.User, tr.User)
		setString(&s.Tracking.DashboardURL, tr.DashboardURL)
		setString(&s.Tracking.Namespace, tr.Namespace)
		if tr.Timeout != nil {
			d, err := time.ParseDuration(*tr.Timeout)
			if err != nil {
				return nil, fmt.Errorf("sweep %q: invalid tracking timeout %q: %w", block.Name, *tr.Timeout, err)
			}
			s.Tracking.Timeout = d
		}
	}

	if r := block.Report; r != nil {
		setString(&s.Report.Path, r.Path)
	}

	return &s, nil
}

// environVal exposes the process environment to HCL expressions as the
// object value env, so sweep files can write e.g. user = env.USER.
func environVal() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
			vars[name] = cty.StringVal(value)
		}
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
