package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/run-bigpig/roundtable/internal/config"
	"github.com/run-bigpig/roundtable/internal/export"
	"github.com/run-bigpig/roundtable/internal/llm"
	"github.com/run-bigpig/roundtable/internal/meeting"
	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/pkg/paths"
	"github.com/run-bigpig/roundtable/internal/registry"
	"github.com/run-bigpig/roundtable/internal/store"
	"github.com/run-bigpig/roundtable/internal/websearch"
)

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "roundtable",
		Short: "Multi-agent roundtable meeting orchestrator",
		Long:  "Roundtable plans a series of expert meetings for a project topic,\nruns each meeting through three discussion rounds plus synthesis,\nand produces a final executive report.",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "use a sqlite archive at this path instead of JSON files")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newResumeCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newAgentsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// newStore 按参数选择 sqlite 或 JSON 文件存档
func newStore(limit int) (store.Store, error) {
	if dbPath != "" {
		return store.NewSQLiteStore(dbPath, limit)
	}
	return store.NewFileStore(paths.GetHistoryDir(), limit)
}

// newSeries 组装生成链和系列控制器
func newSeries(ctx context.Context, st store.Store) (*meeting.Series, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen, err := llm.NewClient(ctx, cfg.Backends, websearch.NewClient())
	if err != nil {
		return nil, err
	}

	reg, err := registry.New()
	if err != nil {
		return nil, err
	}
	return meeting.NewSeries(gen, reg, st), nil
}

func newRunCommand() *cobra.Command {
	var autoApprove bool
	cmd := &cobra.Command{
		Use:   "run <topic>",
		Short: "Plan and run a meeting series for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			topic := args[0]

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := newStore(cfg.HistoryLimit)
			if err != nil {
				return err
			}
			defer st.Close()

			s, err := newSeries(ctx, st)
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("Planning meetings for: " + topic))
			item, err := s.Plan(ctx, topic)
			if err != nil {
				return err
			}

			reg, err := registry.New()
			if err != nil {
				return err
			}
			printPlan(item.MeetingPlan, reg)

			reader := bufio.NewReader(os.Stdin)
			if !autoApprove {
				answer := promptLine(reader, "Start this meeting series? [y/N] ")
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Println("Plan saved. Resume later with: roundtable resume " + item.ID)
					return nil
				}
			}

			if err := s.StartSeries(); err != nil {
				return err
			}
			return driveSeries(ctx, s, reg, reader)
		},
	}
	cmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "start the series without plan confirmation")
	return cmd
}

func newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume an interrupted project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := newStore(cfg.HistoryLimit)
			if err != nil {
				return err
			}
			defer st.Close()

			item, err := st.Load(args[0])
			if err != nil {
				return err
			}

			s, err := newSeries(ctx, st)
			if err != nil {
				return err
			}
			if err := s.Resume(item); err != nil {
				return err
			}

			reg, err := registry.New()
			if err != nil {
				return err
			}

			fmt.Println(titleStyle.Render("Resuming: " + item.Topic))
			reader := bufio.NewReader(os.Stdin)

			if s.Phase() == models.PhasePlanReview {
				printPlan(item.MeetingPlan, reg)
				answer := promptLine(reader, "Start this meeting series? [y/N] ")
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					return nil
				}
				if err := s.StartSeries(); err != nil {
					return err
				}
			}
			return driveSeries(ctx, s, reg, reader)
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := newStore(cfg.HistoryLimit)
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.List()
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No projects yet. Start one with: roundtable run <topic>")
				return nil
			}
			printProjectList(items)
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project's meetings and reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := newStore(cfg.HistoryLimit)
			if err != nil {
				return err
			}
			defer st.Close()

			item, err := st.Load(args[0])
			if err != nil {
				return err
			}
			reg, err := registry.New()
			if err != nil {
				return err
			}
			printProject(item, reg)
			return nil
		},
	}
}

func newExportCommand() *cobra.Command {
	var transcript bool
	var output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a project as a markdown document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, err := newStore(cfg.HistoryLimit)
			if err != nil {
				return err
			}
			defer st.Close()

			item, err := st.Load(args[0])
			if err != nil {
				return err
			}
			reg, err := registry.New()
			if err != nil {
				return err
			}

			var doc string
			if transcript {
				var sb strings.Builder
				for i, result := range item.MeetingResults {
					sb.WriteString(fmt.Sprintf("# Meeting %d: %s\n\n", i+1, result.Goal))
					sb.WriteString(export.Transcript(result.Transcript, reg))
					sb.WriteString("\n\n")
				}
				doc = sb.String()
			} else {
				doc = export.Report(item, reg)
			}

			if output == "" {
				fmt.Print(doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
				return fmt.Errorf("write export file error: %w", err)
			}
			fmt.Println("Exported to " + output)
			return nil
		},
	}
	cmd.Flags().BoolVar(&transcript, "transcript", false, "export full transcripts instead of the report")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newAgentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the available expert personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.New()
			if err != nil {
				return err
			}
			for _, a := range reg.All() {
				fmt.Printf("%s  %s\n", agentStyle.Render(fmt.Sprintf("%-12s", a.ID)), a.Name)
				fmt.Printf("              %s\n", dimStyle.Render(a.ShortPersona))
			}
			return nil
		},
	}
}

// driveSeries 自动推进整个系列，实时打印转录，会议之间收引导输入
func driveSeries(ctx context.Context, s *meeting.Series, reg *registry.Registry, reader *bufio.Reader) error {
	printed := 0
	for {
		switch s.Phase() {
		case models.PhaseFinalComplete:
			printed = flushTranscript(s, reg, printed)
			fmt.Println()
			fmt.Println(titleStyle.Render("Final Project Report"))
			fmt.Println(export.FinalReport(*s.Item().FinalSummary))
			fmt.Println(dimStyle.Render("Project ID: " + s.Item().ID))
			return nil

		case models.PhaseAwaitingUserInput:
			printed = flushTranscript(s, reg, printed)
			fmt.Println()
			text := promptLine(reader, "Steering for the next meeting (enter to skip): ")
			if err := s.SubmitUserInput(text); err != nil {
				return err
			}
			printed = 0

		default:
			if _, err := s.Step(ctx); err != nil {
				printed = flushTranscript(s, reg, printed)
				fmt.Fprintln(os.Stderr, errorStyle.Render("Step failed: "+err.Error()))
				answer := promptLine(reader, "Retry this step? [Y/n] ")
				if strings.EqualFold(answer, "n") || strings.EqualFold(answer, "no") {
					fmt.Println("Progress saved. Resume later with: roundtable resume " + s.Item().ID)
					return nil
				}
				continue
			}
			printed = flushTranscript(s, reg, printed)
		}
	}
}

// flushTranscript 打印自上次以来新增的转录条目
func flushTranscript(s *meeting.Series, reg *registry.Registry, printed int) int {
	items := s.Transcript()
	for ; printed < len(items); printed++ {
		printTranscriptItem(items[printed], reg)
	}
	return printed
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(promptStyle.Render(prompt))
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
