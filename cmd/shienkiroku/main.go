package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ymoriya/shienkiroku/internal/config"
	"github.com/ymoriya/shienkiroku/internal/runner"
)

var (
	attendancePath string
	dailyPath      string
	templatePath   string
	outputDir      string
	configPath     string
	assumeYes      bool
)

var rootCmd = &cobra.Command{
	Use:   "shienkiroku",
	Short: "Generate service support record sheets from attendance and daily logs",
	Long: `shienkiroku joins a per-visit attendance ledger CSV with a per-day
activity/vitals CSV and writes one record sheet per attended visit,
copied from the Format sheet of the template workbook.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&attendancePath, "attendance", "a", "", "attendance ledger CSV (caseMonth export)")
	rootCmd.Flags().StringVarP(&dailyPath, "daily", "d", "", "daily activity log CSV (userCaseDaily export)")
	rootCmd.Flags().StringVarP(&templatePath, "template", "t", "", "template workbook (.xlsx)")
	rootCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "output directory")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "directory holding config.yaml")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "overwrite an existing output file without asking")
	_ = rootCmd.MarkFlagRequired("attendance")
	_ = rootCmd.MarkFlagRequired("daily")
	_ = rootCmd.MarkFlagRequired("template")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	service := runner.NewService(cfg,
		runner.WithLogger(logger),
		runner.WithConfirm(confirmOverwrite),
	)

	result, err := service.Run(cmd.Context(), runner.Request{
		AttendancePath: attendancePath,
		DailyPath:      dailyPath,
		TemplatePath:   templatePath,
		OutputDir:      outputDir,
	})
	if err != nil {
		return err
	}

	fmt.Printf("saved %s (%d sheets, %d rows skipped)\n",
		result.OutputPath, result.SheetsEmitted, result.RowsSkipped)
	return nil
}

// confirmOverwrite asks on stdin before replacing an existing output file.
func confirmOverwrite(path string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s already exists. Overwrite? [y/N]: ", path)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
