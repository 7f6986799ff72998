package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/audio"
	"github.com/anandvisw/pharmscribe-go/internal/speech"
)

var (
	recordInput  string
	recordTriage string
	recordSave   bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Run a voice capture session and analyze the recording",
	Long: `Run a capture session and feed the recorded audio through analysis.

The capture source is an audio file replayed as a microphone stream (--input),
so dictated narratives recorded elsewhere go through the same session flow as
live capture.

Examples:
  pharmscribe record --input visit-dictation.wav
  pharmscribe record --input visit-dictation.wav --triage Urgent --save`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordInput, "input", "i", "", "audio file replayed as the capture stream (required)")
	recordCmd.Flags().StringVarP(&recordTriage, "triage", "t", "Routine", "triage level passed to the model as context")
	recordCmd.Flags().BoolVar(&recordSave, "save", false, "save the report to local history")
	_ = recordCmd.MarkFlagRequired("input")
}

func runRecord(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := getGemini(ctx)
	if err != nil {
		return err
	}
	analyzer, err := getAnalyzer(ctx)
	if err != nil {
		return err
	}

	recorder := audio.NewRecorder(&audio.FileMicrophone{Path: recordInput})
	pipeline := speech.New(client, audio.NewPlayer(&audio.FileDevice{Path: speakOut}), recorder, analyzer, speech.Options{
		PrimaryVoice:   cfg.VoicePrimary,
		SecondaryVoice: cfg.VoiceSecondary,
	}, logger)

	if err := pipeline.StartRecording(ctx); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	fmt.Println("Recording...")

	result, err := pipeline.StopAndAnalyze(ctx, recordTriage)
	if err != nil {
		return fmt.Errorf("analyze recording: %w", err)
	}

	fmt.Print(renderResult("", result))

	if recordSave {
		rec, err := getStore().Save(ctx, result.Transcript, recordTriage, attachment.ModalityAudio, result)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Printf("\nSaved as %s\n", rec.ID)
	}
	return nil
}
