package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anandvisw/pharmscribe-go/internal/audio"
	"github.com/anandvisw/pharmscribe-go/internal/speech"
)

var (
	speakVoice string
	speakOut   string
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Synthesize speech for a piece of text",
	Long: `Synthesize speech for the given text and render it to a WAV file.

The primary voice reads English; the secondary voice reads Tamil.

Examples:
  pharmscribe speak "Take lisinopril with food."
  pharmscribe speak "உணவுடன் எடுக்கவும்." --voice secondary -o advice-ta.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runSpeak,
}

func init() {
	speakCmd.Flags().StringVar(&speakVoice, "voice", "primary", "voice preset: primary or secondary")
	speakCmd.Flags().StringVarP(&speakOut, "out", "o", "pharmscribe-speech.wav", "output WAV file")
}

// getSpeechPipeline builds a synthesis-only pipeline that renders playback
// to the configured output file.
func getSpeechPipeline(ctx context.Context) (*speech.Pipeline, error) {
	client, err := getGemini(ctx)
	if err != nil {
		return nil, err
	}
	player := audio.NewPlayer(&audio.FileDevice{Path: speakOut})
	return speech.New(client, player, nil, nil, speech.Options{
		PrimaryVoice:   cfg.VoicePrimary,
		SecondaryVoice: cfg.VoiceSecondary,
	}, logger), nil
}

func runSpeak(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	voice := speech.VoicePrimary
	if speakVoice == "secondary" {
		voice = speech.VoiceSecondary
	}

	pipeline, err := getSpeechPipeline(ctx)
	if err != nil {
		return err
	}
	if err := pipeline.Speak(ctx, args[0], voice); err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	fmt.Printf("Audio written to %s\n", speakOut)
	return nil
}
