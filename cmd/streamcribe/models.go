package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// modelsCmd lists every recognizer backend this deployment's
// configuration can construct, adapted from the teacher's
// internal/models.ListLLMModels idea (there: list Ollama models; here:
// list registered recognizer capabilities) per spec_full's CLI surface
// enrichment.
func modelsCmd(cfg *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List recognizer backends this configuration can construct",
		RunE: func(cmd *cobra.Command, args []string) error {
			backends := buildBackends(*cfg)
			if len(backends) == 0 {
				fmt.Println("no recognizer backends configured; set WHISPER_SERVER_URL, WHISPER_NATIVE_MODEL_PATH, OPENAI_API_KEY, or SHERPA_ENCODER/SHERPA_DECODER/SHERPA_TOKENS")
				return nil
			}

			names := make([]string, 0, len(backends))
			for name := range backends {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				cap := backends[name].Capability()
				fmt.Printf("%-16s max_audio_seconds=%.0f supports_prompt=%-5t preferred_sample_rate=%d\n",
					name, cap.MaxAudioSeconds, cap.SupportsPrompt, cap.PreferredSampleRate)
			}
			return nil
		},
	}
}
