package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/scenestage/internal/scene"
	"github.com/san-kum/scenestage/internal/viewport"
	"gopkg.in/yaml.v3"
)

type Op string

const (
	OpAdd    Op = "add"
	OpLoad   Op = "load"
	OpShow   Op = "show"
	OpResize Op = "resize"
)

// Scenario defines a scripted sequence of store operations
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Viewport    *ViewportConfig `yaml:"viewport"`
	Steps       []ScenarioStep  `yaml:"steps"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScenarioStep is a single operation in a scenario. ExpectError names the
// error the step must fail with: duplicate, unknown, not_loaded or
// invalid_url.
type ScenarioStep struct {
	Op          Op     `yaml:"op"`
	URL         string `yaml:"url"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	ExpectError string `yaml:"expect_error"`
}

var expectedErrors = map[string]error{
	"duplicate":   scene.ErrDuplicateScene,
	"unknown":     scene.ErrUnknownScene,
	"not_loaded":  scene.ErrSceneNotLoaded,
	"invalid_url": scene.ErrInvalidURL,
}

// StepResult is the outcome of one step and the store counts after it.
type StepResult struct {
	Index  int
	Step   ScenarioStep
	Err    error
	Counts scene.Counts
}

type Report struct {
	Scenario string
	Steps    []StepResult
	Final    scene.Snapshot
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		switch step.Op {
		case OpAdd, OpLoad, OpShow, OpResize:
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
		if step.ExpectError != "" {
			if _, ok := expectedErrors[step.ExpectError]; !ok {
				return fmt.Errorf("step %d: unknown expect_error %q", i+1, step.ExpectError)
			}
		}
	}
	return nil
}

// RunScenario executes all steps against st. win receives resize steps and
// is watched by the store's one-shot dimension rule.
func RunScenario(ctx context.Context, scenario *Scenario, st *scene.Store, win *viewport.Window, logger *slog.Logger) (*Report, error) {
	report := &Report{Scenario: scenario.Name}

	dispose := st.WatchDimensions(win)
	defer dispose()

	if vp := scenario.Viewport; vp != nil {
		if err := win.Resize(vp.Width, vp.Height); err != nil {
			return report, fmt.Errorf("viewport: %w", err)
		}
	}

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logger.Debug("running step", "step", i+1, "of", len(scenario.Steps), "op", step.Op, "url", step.URL)

		err := apply(st, win, step)
		result := StepResult{Index: i, Step: step, Err: err, Counts: st.Snapshot().Counts()}
		report.Steps = append(report.Steps, result)

		if err := checkExpected(step, err); err != nil {
			report.Final = st.Snapshot()
			return report, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	report.Final = st.Snapshot()
	return report, nil
}

func apply(st *scene.Store, win *viewport.Window, step ScenarioStep) error {
	switch step.Op {
	case OpAdd:
		return st.AddScene(step.URL)
	case OpLoad:
		return st.LoadScene(step.URL)
	case OpShow:
		return st.ShowScene(step.URL)
	case OpResize:
		return win.Resize(step.Width, step.Height)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func checkExpected(step ScenarioStep, err error) error {
	if step.ExpectError == "" {
		return err
	}
	want := expectedErrors[step.ExpectError]
	if err == nil {
		return fmt.Errorf("expected %s error, got none", step.ExpectError)
	}
	if !errors.Is(err, want) {
		return fmt.Errorf("expected %s error, got: %w", step.ExpectError, err)
	}
	return nil
}

// RandomConfig defines a randomized run of store operations
type RandomConfig struct {
	URLs     []string
	NumOps   int
	Seed     int64
	Viewport viewport.Size
}

// RandomResult holds statistics from a randomized run
type RandomResult struct {
	Ops      int
	Failures map[Op]int
	Final    scene.Snapshot
}

// RunRandom applies random operations over cfg.URLs and checks the store
// invariants after every one. Operation errors are expected and counted.
func RunRandom(ctx context.Context, cfg *RandomConfig, st *scene.Store, win *viewport.Window) (*RandomResult, error) {
	if len(cfg.URLs) == 0 {
		return nil, errors.New("random run needs at least one url")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	dispose := st.WatchDimensions(win)
	defer dispose()

	ops := []Op{OpAdd, OpLoad, OpShow, OpResize}
	res := &RandomResult{Failures: make(map[Op]int)}
	for i := 0; i < cfg.NumOps; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		step := ScenarioStep{Op: ops[rng.Intn(len(ops))], URL: cfg.URLs[rng.Intn(len(cfg.URLs))]}
		if step.Op == OpResize {
			step.Width = cfg.Viewport.Width + rng.Intn(10)
			step.Height = cfg.Viewport.Height + rng.Intn(10)
		}
		if err := apply(st, win, step); err != nil {
			res.Failures[step.Op]++
		}
		res.Ops++

		if err := scene.CheckInvariants(st.Snapshot()); err != nil {
			res.Final = st.Snapshot()
			return res, fmt.Errorf("op %d (%s %s): %w", i+1, step.Op, step.URL, err)
		}
	}

	res.Final = st.Snapshot()
	return res, nil
}
