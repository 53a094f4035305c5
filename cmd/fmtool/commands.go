package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/fmtool/dispatch"
	"github.com/kbukum/fmtool/errors"
	"github.com/kbukum/fmtool/execution"
	"github.com/kbukum/fmtool/lineage"
	"github.com/kbukum/fmtool/logger"
	"github.com/kbukum/fmtool/manifest"
	"github.com/kbukum/fmtool/process"
	"github.com/kbukum/fmtool/scaffold"
	"github.com/kbukum/fmtool/version"
)

func newGraphCmd(g *globalFlags) *cobra.Command {
	var lineagePath, out string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the lineage as a Mermaid graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				edges, err := e.readLineage(ctx, lineagePath)
				if err != nil {
					return err
				}
				path := e.cfg.outPath(out, "lineage.mmd")
				if err := writeFile(path, []byte(lineage.Mermaid(edges))); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Mermaid saved: %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lineagePath, "lineage", "", "lineage file (default: lineage.path)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: <output.dir>/lineage.mmd)")
	return cmd
}

func newPlanCmd(g *globalFlags) *cobra.Command {
	var lineagePath, planID, out string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Write the object manifest for a migration plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				edges, err := e.readLineage(ctx, lineagePath)
				if err != nil {
					return err
				}
				m := manifest.NewReferencePlan(planID)
				path := e.cfg.outPath(out, "manifest.json")
				data, err := m.JSON()
				if err != nil {
					return err
				}
				if err := writeFile(path, data); err != nil {
					return err
				}
				e.log.Debug("manifest planned", logger.Fields("plan_id", m.PlanID, "items", m.Len(), "edges", len(edges)))
				fmt.Fprintf(e.out, "Manifest saved: %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lineagePath, "lineage", "", "lineage file (default: lineage.path)")
	cmd.Flags().StringVar(&planID, "plan-id", "", "plan identifier (default: random UUID)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: <output.dir>/manifest.json)")
	return cmd
}

func newScaffoldCmd(g *globalFlags) *cobra.Command {
	var fm, out string
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Create docs and a Go handler stub for one FM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				dir := e.cfg.outPath(out, scaffold.PackageName(fm))
				res, err := scaffold.Write(dir, fm)
				if err != nil {
					return err
				}
				e.log.Debug("scaffold written", logger.Fields(logger.FieldFM, res.FM, "files", len(res.Paths)))
				fmt.Fprintf(e.out, "Scaffold created under: %s\n", res.Dir)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fm, "fm", "", "function module name")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default: <output.dir>/<package>)")
	_ = cmd.MarkFlagRequired("fm")
	return cmd
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	var lineagePath, registryPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config, lineage and registry files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				fmt.Fprintf(e.out, "config: %s (%s)\n", e.cfg.Name, e.cfg.Environment)

				if lineagePath != "" || e.cfg.Lineage.Path != "" {
					edges, err := e.readLineage(ctx, lineagePath)
					if err != nil {
						return err
					}
					graph, plan := e.plan(ctx, edges)
					fmt.Fprintf(e.out, "lineage: %d edges, %d nodes, %d layers\n", len(edges), graph.Len(), len(plan.Layers))
					fmt.Fprintf(e.out, "leaves: %s\n", strings.Join(leaves(graph), ", "))
					if plan.HasCycle() {
						fmt.Fprintf(e.out, "cycle remainder: %s\n", strings.Join(plan.Remainder, ", "))
					}
				}

				reg, err := e.registry(registryPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "registry: %d handlers, %d pointers\n", reg.Count(dispatch.KindHandler), reg.Count(dispatch.KindPointer))
				fmt.Fprintln(e.out, "OK")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lineagePath, "lineage", "", "lineage file (default: lineage.path)")
	cmd.Flags().StringVar(&registryPath, "registry", "", "registry file (default: registry.path)")
	return cmd
}

// leaves are nodes nothing depends on, in first-seen order.
func leaves(g *lineage.Graph) []string {
	var out []string
	for _, n := range g.Nodes {
		if len(g.Children(n)) == 0 {
			out = append(out, n)
		}
	}
	return out
}

func newTestCmd(g *globalFlags) *cobra.Command {
	var fm, dir string
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run go test for a scaffolded FM handler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				pkgDir := e.cfg.outPath(dir, scaffold.PackageName(fm))
				if info, err := os.Stat(pkgDir); err != nil || !info.IsDir() {
					return errors.NotFound("scaffold directory", pkgDir).
						WithDetail("hint", "run fmtool scaffold --fm "+fm)
				}

				res, err := process.Run(ctx, process.Command{
					Binary: "go",
					Args:   []string{"test", "."},
					Dir:    pkgDir,
					Stream: e.out,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Tests passed for %s in %s\n", strings.ToUpper(fm), res.Duration.Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fm, "fm", "", "function module name")
	cmd.Flags().StringVar(&dir, "dir", "", "handler package directory (default: <output.dir>/<package>)")
	_ = cmd.MarkFlagRequired("fm")
	return cmd
}

func newRunCmd(g *globalFlags) *cobra.Command {
	var lineagePath, registryPath string
	var dryRun, verbose bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dispatch every FM in lineage order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				edges, err := e.readLineage(ctx, lineagePath)
				if err != nil {
					return err
				}
				_, plan := e.plan(ctx, edges)
				var opts []dispatch.ApplyOption
				if verbose {
					opts = append(opts, dispatch.WithOutput(e.out))
				}
				reg, err := e.registry(registryPath, opts...)
				if err != nil {
					return err
				}

				d := dispatch.New(reg, dispatch.WithRecorder(e.telemetry.Metrics()))
				if dryRun {
					order := plan.Order()
					for i, entry := range d.Describe(order) {
						layer, _ := plan.LayerOf(order[i])
						fmt.Fprintf(e.out, "[PLAN] layer %d: %s -> %s\n", layer, order[i], entry.Kind)
					}
					return nil
				}

				ec := execution.NewMemory(logger.Get("handler")).WithConfig(e.cfg.Execution.Config)
				_, err = d.RunPlan(ctx, plan, ec)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&lineagePath, "lineage", "", "lineage file (default: lineage.path)")
	cmd.Flags().StringVar(&registryPath, "registry", "", "registry file (default: registry.path)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the dispatch plan without invoking handlers")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "stream command handler output")
	return cmd
}

func newLayersCmd(g *globalFlags) *cobra.Command {
	var lineagePath string
	cmd := &cobra.Command{
		Use:   "layers",
		Short: "Print the dependency layers of the lineage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.run(cmd, func(ctx context.Context, e *env) error {
				edges, err := e.readLineage(ctx, lineagePath)
				if err != nil {
					return err
				}
				_, plan := e.plan(ctx, edges)
				for i, layer := range plan.Layers {
					label := fmt.Sprintf("layer %d", i)
					if plan.HasCycle() && i == len(plan.Layers)-1 {
						label += " (cycle remainder)"
					}
					fmt.Fprintf(e.out, "%s: %s\n", label, strings.Join(layer, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&lineagePath, "lineage", "", "lineage file (default: lineage.path)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}
