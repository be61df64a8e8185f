package launcher

import (
	"strconv"

	"github.com/vk/trainsweep/internal/sweep"
)

// Argv builds the trainer's full argument vector for one seed: the
// script path followed by the flag list the trainer's argparse expects.
// Flag order is part of the invocation contract and must not change.
// Every element except the --seed value is identical across seeds.
func Argv(s *sweep.Sweep, seed int) []string {
	args := []string{
		s.Trainer.Script,
		"--env_name", s.Env,
		"--algorithm_name", s.Algorithm,
		"--experiment_name", s.Experiment,
		"--num_units", strconv.Itoa(s.NumUnits),
		"--scenario_name", s.Scenario,
		"--num_agents", strconv.Itoa(s.NumAgents),
		"--num_landmarks", strconv.Itoa(s.NumLandmarks),
		"--seed", strconv.Itoa(seed),
		"--n_training_threads", strconv.Itoa(s.Trainer.NTrainingThreads),
		"--n_rollout_threads", strconv.Itoa(s.Trainer.NRolloutThreads),
		"--num_mini_batch", strconv.Itoa(s.Trainer.NumMiniBatch),
		"--episode_length", strconv.Itoa(s.Trainer.EpisodeLength),
		"--num_env_steps", strconv.Itoa(s.Trainer.NumEnvSteps),
		"--ppo_epoch", strconv.Itoa(s.Trainer.PPOEpoch),
	}
	if s.Trainer.UseReLU {
		args = append(args, "--use_ReLU")
	}
	return append(args,
		"--gain", s.Trainer.Gain,
		"--lr", s.Trainer.LR,
		"--critic_lr", s.Trainer.CriticLR,
		"--wandb_name", s.Tracking.User,
		"--user_name", s.Tracking.User,
	)
}
