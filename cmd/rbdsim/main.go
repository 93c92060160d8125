package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rbdsim/internal/config"
	"github.com/san-kum/rbdsim/internal/dynamics"
	"github.com/san-kum/rbdsim/internal/integrators"
	"github.com/san-kum/rbdsim/internal/mechstate"
	"github.com/san-kum/rbdsim/internal/scalar"
	"github.com/san-kum/rbdsim/internal/storage"
	"github.com/san-kum/rbdsim/internal/store"
	"github.com/san-kum/rbdsim/internal/trajectory"
)

var (
	dataDir     string
	qFlag       string
	vFlag       string
	dt          float64
	duration    float64
	integrator  string
	seed        int64
	outPath     string
	configFile  string
)

// main is the entry point for the rbdsim CLI; it registers the mechanism
// inspection, single-step evaluation, and trajectory-integration
// subcommands and executes the root command.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rbdsim",
		Short: "rigid-body dynamics computational core",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rbdsim", "run data directory")

	infoCmd := &cobra.Command{
		Use:   "info <preset>",
		Short: "print a preset mechanism's body/joint topology",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}

	stepCmd := &cobra.Command{
		Use:   "step <preset>",
		Short: "one-shot dynamics evaluation at a given (q, v)",
		Args:  cobra.ExactArgs(1),
		RunE:  runStep,
	}
	stepCmd.Flags().StringVar(&qFlag, "q", "", "comma-separated initial configuration (defaults to zero)")
	stepCmd.Flags().StringVar(&vFlag, "v", "", "comma-separated initial velocity (defaults to zero)")

	integrateCmd := &cobra.Command{
		Use:   "integrate <preset>",
		Short: "integrate a preset mechanism forward in time",
		Args:  cobra.ExactArgs(1),
		RunE:  runIntegrate,
	}
	integrateCmd.Flags().StringVar(&qFlag, "q", "", "comma-separated initial configuration")
	integrateCmd.Flags().StringVar(&vFlag, "v", "", "comma-separated initial velocity")
	integrateCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (defaults to the preset's own)")
	integrateCmd.Flags().Float64Var(&duration, "time", 0, "duration (defaults to the preset's own)")
	integrateCmd.Flags().StringVar(&integrator, "integrator", "", "rk4, euler, or semi-implicit-euler")
	integrateCmd.Flags().Int64Var(&seed, "seed", 0, "run seed recorded in metadata")
	integrateCmd.Flags().StringVar(&outPath, "out", "", "export the trajectory to this JSON path instead of plotting")
	integrateCmd.Flags().StringVar(&configFile, "config", "", "load a RunConfig yaml file, overridden by any flags set")

	watchCmd := &cobra.Command{
		Use:   "watch <preset>",
		Short: "live terminal view of a running integration",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	watchCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (defaults to the preset's own)")
	watchCmd.Flags().StringVar(&integrator, "integrator", "rk4", "rk4, euler, or semi-implicit-euler")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available mechanism presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(infoCmd, stepCmd, integrateCmd, watchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolvePreset(name string) (*config.Preset, error) {
	p, ok := config.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(config.ListPresets(), ", "))
	}
	return &p, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	preset, err := resolvePreset(args[0])
	if err != nil {
		return err
	}
	mech := preset.Build()
	nq, nv := config.PresetDims(mech)

	fmt.Printf("preset: %s\n", preset.Name)
	fmt.Printf("bodies: %d  nq: %d  nv: %d\n\n", mech.NumBodies(), nq, nv)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPARENT\tJOINT\tKIND\tNQ\tNV")
	for id, body := range mech.Bodies() {
		if body.IsRoot() {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\n", body.Name)
			continue
		}
		ji := mech.ParentJoint(id)
		j := mech.TreeJoints()[ji]
		parent := mech.Bodies()[mech.ParentBody(id)]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", body.Name, parent.Name, j.Name, j.Spec.Kind, j.Spec.NQ(), j.Spec.NV())
	}
	return w.Flush()
}

func parseVector(csvList string, n int, label string) ([]float64, error) {
	if csvList == "" {
		return make([]float64, n), nil
	}
	fields := strings.Split(csvList, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("%s has %d entries, want %d", label, len(fields), n)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", label, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func runStep(cmd *cobra.Command, args []string) error {
	preset, err := resolvePreset(args[0])
	if err != nil {
		return err
	}
	mech := preset.Build()
	nq, nv := config.PresetDims(mech)

	q, err := parseVector(qFlag, nq, "q")
	if err != nil {
		return err
	}
	v, err := parseVector(vFlag, nv, "v")
	if err != nil {
		return err
	}

	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	if err := ms.SetConfiguration(toFloat64Scalars(q)); err != nil {
		return err
	}
	if err := ms.SetVelocity(toFloat64Scalars(v)); err != nil {
		return err
	}

	tau := make([]scalar.Float64, nv)
	result, err := dynamics.Evaluate(ms, tau)
	if err != nil {
		return err
	}

	fmt.Println("mass matrix:")
	for _, row := range result.MassMatrix {
		fmt.Println(" ", row)
	}
	fmt.Println("bias:", result.Bias)
	fmt.Println("qddot:", result.Qddot)

	ke, err := ms.KineticEnergy()
	if err != nil {
		return err
	}
	pe, err := ms.GravitationalPotentialEnergy()
	if err != nil {
		return err
	}
	fmt.Printf("kinetic energy: %v  potential energy: %v\n", ke, pe)
	return nil
}

func toFloat64Scalars(v []float64) []scalar.Float64 {
	out := make([]scalar.Float64, len(v))
	for i, x := range v {
		out[i] = scalar.Float64(x)
	}
	return out
}

func selectIntegrator(name string) (func(*mechstate.MechanismState[scalar.Float64], []scalar.Float64, scalar.Float64) error, error) {
	switch name {
	case "", "rk4":
		return integrators.RK4[scalar.Float64], nil
	case "euler":
		return integrators.Euler[scalar.Float64], nil
	case "semi-implicit-euler":
		return integrators.SemiImplicitEuler[scalar.Float64], nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", name)
	}
}

func runIntegrate(cmd *cobra.Command, args []string) error {
	preset, err := resolvePreset(args[0])
	if err != nil {
		return err
	}

	runCfg := preset.Default
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		runCfg = *loaded
	}
	if cmd.Flags().Changed("dt") {
		runCfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		runCfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		runCfg.Integrator = integrator
	}
	if cmd.Flags().Changed("seed") {
		runCfg.Seed = seed
	}

	mech := preset.Build()
	nq, nv := config.PresetDims(mech)

	q0 := runCfg.InitialConfiguration
	if len(q0) == 0 || cmd.Flags().Changed("q") {
		q0, err = parseVector(qFlag, nq, "q")
		if err != nil {
			return err
		}
	}
	v0 := runCfg.InitialVelocity
	if len(v0) == 0 || cmd.Flags().Changed("v") {
		v0, err = parseVector(vFlag, nv, "v")
		if err != nil {
			return err
		}
	}

	step, err := selectIntegrator(runCfg.Integrator)
	if err != nil {
		return err
	}

	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	if err := ms.SetConfiguration(toFloat64Scalars(q0)); err != nil {
		return err
	}
	if err := ms.SetVelocity(toFloat64Scalars(v0)); err != nil {
		return err
	}
	tau := make([]scalar.Float64, nv)

	traj := &trajectory.Trajectory{Metrics: map[string]float64{}}
	t := 0.0
	for t < runCfg.Duration {
		ke, err := ms.KineticEnergy()
		if err != nil {
			return err
		}
		pe, err := ms.GravitationalPotentialEnergy()
		if err != nil {
			return err
		}
		traj.Append(t, float64Slice(ms.Configuration()), float64Slice(ms.Velocity()), float64Slice(tau), float64(ke), float64(pe))

		if err := step(ms, tau, scalar.Float64(runCfg.Dt)); err != nil {
			return err
		}
		t += runCfg.Dt
	}

	if len(traj.Times) > 1 {
		initial := traj.TotalEnergy(0)
		maxDrift := 0.0
		for i := range traj.Times {
			if initial == 0 {
				break
			}
			drift := abs(traj.TotalEnergy(i)-initial) / abs(initial)
			if drift > maxDrift {
				maxDrift = drift
			}
		}
		traj.Metrics["max_energy_drift"] = maxDrift
	}

	if outPath != "" {
		if err := store.ExportJSON(outPath, preset.Name, runCfg.Integrator, runCfg.Dt, runCfg.Duration, traj); err != nil {
			return err
		}
		fmt.Printf("exported trajectory to %s\n", outPath)
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(preset.Name, runCfg.Dt, runCfg.Duration, runCfg.Seed, runCfg.Integrator, traj)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  max energy drift: %.6g\n\n", len(traj.Times), traj.Metrics["max_energy_drift"])

	energies := make([]float64, len(traj.Times))
	for i := range traj.Times {
		energies[i] = traj.TotalEnergy(i)
	}
	fmt.Println(asciigraph.Plot(energies, asciigraph.Height(12), asciigraph.Caption("total energy")))
	return nil
}

func float64Slice(v []scalar.Float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
)

type tickMsg time.Time

type watchModel struct {
	ms            *mechstate.MechanismState[scalar.Float64]
	tau           []scalar.Float64
	step          func(*mechstate.MechanismState[scalar.Float64], []scalar.Float64, scalar.Float64) error
	dt            scalar.Float64
	presetName    string
	t             float64
	energyHistory []float64
	err           error
}

func (m watchModel) Init() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		if m.err == nil {
			if err := m.step(m.ms, m.tau, m.dt); err != nil {
				m.err = err
			} else {
				m.t += float64(m.dt)
				ke, _ := m.ms.KineticEnergy()
				pe, _ := m.ms.GravitationalPotentialEnergy()
				m.energyHistory = append(m.energyHistory, float64(ke+pe))
				if len(m.energyHistory) > 200 {
					m.energyHistory = m.energyHistory[1:]
				}
			}
		}
		return m, tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("rbdsim watch: %s", m.presetName)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("time"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.3f s", m.t)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("q"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%v", float64Slice(m.ms.Configuration()))))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("\nerror: %v\n", m.err))
	} else if len(m.energyHistory) > 1 {
		b.WriteString("\n")
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.energyHistory, asciigraph.Height(10), asciigraph.Caption("total energy"))))
	}
	b.WriteString("\n\npress q to quit\n")
	return b.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	preset, err := resolvePreset(args[0])
	if err != nil {
		return err
	}
	runCfg := preset.Default
	if cmd.Flags().Changed("dt") {
		runCfg.Dt = dt
	}
	if cmd.Flags().Changed("integrator") {
		runCfg.Integrator = integrator
	}

	mech := preset.Build()
	_, nv := config.PresetDims(mech)
	step, err := selectIntegrator(runCfg.Integrator)
	if err != nil {
		return err
	}

	ms := mechstate.StateFor(mech, scalar.FromFloat64Backend)
	m := watchModel{
		ms:         ms,
		tau:        make([]scalar.Float64, nv),
		step:       step,
		dt:         scalar.Float64(runCfg.Dt),
		presetName: preset.Name,
	}

	_, err = tea.NewProgram(m).Run()
	return err
}
