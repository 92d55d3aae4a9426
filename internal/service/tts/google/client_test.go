package google

import (
	"VoiceAssistant/internal/config"
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

func TestPickVoice_FirstFemale(t *testing.T) {
	voices := []*ttspb.Voice{
		{Name: "en-US-Standard-B", SsmlGender: ttspb.SsmlVoiceGender_MALE},
		{Name: "en-US-Standard-C", SsmlGender: ttspb.SsmlVoiceGender_FEMALE},
		{Name: "en-US-Standard-E", SsmlGender: ttspb.SsmlVoiceGender_FEMALE},
	}
	if got := PickVoice(voices, ttspb.SsmlVoiceGender_FEMALE); got != "en-US-Standard-C" {
		t.Fatalf("got %q", got)
	}
	if got := PickVoice(voices[:1], ttspb.SsmlVoiceGender_FEMALE); got != "" {
		t.Fatalf("no female voice should give empty name, got %q", got)
	}
}

func TestBuildRequest(t *testing.T) {
	cfg := config.GoogleTTSConfig{Language: "en-US", SpeakingRate: 1.2, EffectsProfileID: "headphone-class-device"}
	req := BuildRequest(cfg, "en-US-Standard-C", "Hello")
	if req.GetInput().GetText() != "Hello" {
		t.Fatalf("text input expected, got %v", req.GetInput())
	}
	if req.GetVoice().GetName() != "en-US-Standard-C" || req.GetVoice().GetLanguageCode() != "en-US" {
		t.Fatalf("unexpected voice %v", req.GetVoice())
	}
	ac := req.GetAudioConfig()
	if ac.GetAudioEncoding() != ttspb.AudioEncoding_MP3 || ac.GetSpeakingRate() != 1.2 {
		t.Fatalf("unexpected audio config %v", ac)
	}
	if len(ac.GetEffectsProfileId()) != 1 {
		t.Fatalf("effects profile not set")
	}

	cfg.InputType = "SSML"
	if got := BuildRequest(cfg, "", "<speak>Hi</speak>").GetInput().GetSsml(); got != "<speak>Hi</speak>" {
		t.Fatalf("ssml input expected, got %q", got)
	}
}
