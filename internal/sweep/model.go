package sweep

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Sweep describes one full seed sweep: the trainer identifiers, the
// scenario dimensions, the seed ceiling, and the fixed hyperparameters
// passed to every spawned run.
type Sweep struct {
	Name       string
	Env        string
	Scenario   string
	Algorithm  string
	Experiment string

	NumAgents    int
	NumLandmarks int
	NumUnits     int

	// Seeds is the inclusive seed ceiling. Runs use seeds 1..Seeds in
	// ascending order; 0 means an empty sweep.
	Seeds int

	Trainer  Trainer
	Tracking Tracking
	Report   Report
}

// Trainer holds the invocation contract of the external training
// program: how to start it and the hyperparameter flags it receives.
type Trainer struct {
	Python string
	Script string

	// Device is the accelerator index exported as CUDA_VISIBLE_DEVICES
	// in each child's environment.
	Device int

	NTrainingThreads int
	NRolloutThreads  int
	NumMiniBatch     int
	EpisodeLength    int
	NumEnvSteps      int
	PPOEpoch         int
	UseReLU          bool

	// Gain, LR and CriticLR are carried verbatim: the trainer's argparse
	// accepts scientific notation ("7e-4") and the flag value must reach
	// it byte-exact, so they are never round-tripped through float64.
	Gain     string
	LR       string
	CriticLR string
}

// Tracking names the experiment-tracking identity and the optional live
// status dashboard.
type Tracking struct {
	// User is passed as both --wandb_name and --user_name.
	User string

	// DashboardURL, when non-empty, enables the socket.io status
	// notifier.
	DashboardURL string
	Namespace    string
	Timeout      time.Duration
}

// Report configures the post-sweep duration report. An empty Path
// disables it.
type Report struct {
	Path string
}

// Defaults returns a Sweep populated with the stock launch-line
// constants. Loaded files override fields selectively.
func Defaults() Sweep {
	return Sweep{
		Env:          "MPE",
		Scenario:     "simple_spread",
		Algorithm:    "rmappo",
		Experiment:   "check",
		NumAgents:    3,
		NumLandmarks: 3,
		NumUnits:     6,
		Seeds:        5,
		Trainer: Trainer{
			Python:           "python",
			Script:           "train/train_mpe.py",
			Device:           0,
			NTrainingThreads: 1,
			NRolloutThreads:  12,
			NumMiniBatch:     1,
			EpisodeLength:    25,
			NumEnvSteps:      2000000,
			PPOEpoch:         10,
			UseReLU:          true,
			Gain:             "0.01",
			LR:               "7e-4",
			CriticLR:         "7e-4",
		},
		Tracking: Tracking{
			User:      "marl",
			Namespace: "/runs",
			Timeout:   10 * time.Second,
		},
	}
}

// Validate checks the invariants the launcher relies on. It returns the
// first violation found.
func (s *Sweep) Validate() error {
	if s.Name == "" {
		return errors.New("sweep name must not be empty")
	}
	if s.Seeds < 0 {
		return fmt.Errorf("sweep %q: seeds must be non-negative, got %d", s.Name, s.Seeds)
	}
	for field, v := range map[string]int{
		"num_agents":    s.NumAgents,
		"num_landmarks": s.NumLandmarks,
		"num_units":     s.NumUnits,
	} {
		if v < 0 {
			return fmt.Errorf("sweep %q: %s must be non-negative, got %d", s.Name, field, v)
		}
	}
	for field, v := range map[string]string{
		"env":        s.Env,
		"scenario":   s.Scenario,
		"algorithm":  s.Algorithm,
		"experiment": s.Experiment,
	} {
		if v == "" {
			return fmt.Errorf("sweep %q: %s must not be empty", s.Name, field)
		}
	}
	if s.Trainer.Python == "" {
		return fmt.Errorf("sweep %q: trainer python interpreter must not be empty", s.Name)
	}
	if s.Trainer.Script == "" {
		return fmt.Errorf("sweep %q: trainer script must not be empty", s.Name)
	}
	if s.Trainer.Device < 0 {
		return fmt.Errorf("sweep %q: trainer device must be non-negative, got %d", s.Name, s.Trainer.Device)
	}
	for field, v := range map[string]int{
		"n_training_threads": s.Trainer.NTrainingThreads,
		"n_rollout_threads":  s.Trainer.NRolloutThreads,
		"num_mini_batch":     s.Trainer.NumMiniBatch,
		"episode_length":     s.Trainer.EpisodeLength,
		"num_env_steps":      s.Trainer.NumEnvSteps,
		"ppo_epoch":          s.Trainer.PPOEpoch,
	} {
		if v <= 0 {
			return fmt.Errorf("sweep %q: trainer %s must be positive, got %d", s.Name, field, v)
		}
	}
	for field, v := range map[string]string{
		"gain":      s.Trainer.Gain,
		"lr":        s.Trainer.LR,
		"critic_lr": s.Trainer.CriticLR,
	} {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("sweep %q: trainer %s must be a positive number, got %q", s.Name, field, v)
		}
	}
	if s.Tracking.Timeout <= 0 {
		return fmt.Errorf("sweep %q: tracking timeout must be positive, got %s", s.Name, s.Tracking.Timeout)
	}
	return nil
}
