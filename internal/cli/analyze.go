package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anandvisw/pharmscribe-go/internal/analysis"
	"github.com/anandvisw/pharmscribe-go/internal/attachment"
)

var (
	analyzeFile   string
	analyzeTriage string
	analyzeSave   bool
	analyzeSpeak  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [narrative]",
	Short: "Analyze a clinical narrative or attachment for adverse drug events",
	Long: `Analyze a clinical narrative, prescription image, document or audio file.

The narrative can be given as an argument, or an attachment with --file.
Both together are also valid: the text then accompanies the attachment.

Examples:
  pharmscribe analyze "Patient reports dizziness after starting lisinopril 10mg"
  pharmscribe analyze --file prescription.jpg --triage Urgent
  pharmscribe analyze --file visit-recording.wav --save
  pharmscribe analyze "rash on both arms" --speak`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "attach an image, document or audio file")
	analyzeCmd.Flags().StringVarP(&analyzeTriage, "triage", "t", "Routine", "triage level passed to the model as context")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "save the report to local history")
	analyzeCmd.Flags().BoolVar(&analyzeSpeak, "speak", false, "read the summary aloud after analysis")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var text string
	if len(args) == 1 {
		text = args[0]
	}
	if strings.TrimSpace(text) == "" && analyzeFile == "" {
		return fmt.Errorf("nothing to analyze: give a narrative or --file")
	}

	var att *attachment.Attachment
	if analyzeFile != "" {
		var err error
		att, err = attachment.FromFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("read attachment: %w", err)
		}
	}

	analyzer, err := getAnalyzer(ctx)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, analysis.Request{
		Text:        text,
		TriageLevel: analyzeTriage,
		Attachment:  att,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Print(renderResult(text, result))

	if analyzeSave {
		rec, err := getStore().Save(ctx, text, analyzeTriage, att.Modality(), result)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Printf("\nSaved as %s\n", rec.ID)
	}

	if analyzeSpeak {
		pipeline, err := getSpeechPipeline(ctx)
		if err != nil {
			return err
		}
		if err := pipeline.SpeakResult(ctx, result); err != nil {
			return fmt.Errorf("read aloud: %w", err)
		}
		fmt.Printf("\nAudio written to %s\n", speakOut)
	}

	return nil
}
