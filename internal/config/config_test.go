package config

import (
	"os"
	"testing"
)

func TestConfig_LoadFromFile(t *testing.T) {
	testConfig := `[Receiver]
TransmissionMode=1
IngestAddress=127.0.0.1:16000

[Subchannels]
DecodeAudio=1,4
DecodeData=7
PlayAudio=1

[Database]
Path=/var/lib/dabreceiver/ensemble.db

[Slideshow]
Directory=/var/lib/dabreceiver/slideshow`

	tmpfile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(testConfig)); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	config := NewConfig(tmpfile.Name())
	if err := config.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.GetTransmissionMode() != 1 {
		t.Errorf("GetTransmissionMode() = %d, want 1", config.GetTransmissionMode())
	}
	if config.GetIngestAddress() != "127.0.0.1:16000" {
		t.Errorf("GetIngestAddress() = %q, want %q", config.GetIngestAddress(), "127.0.0.1:16000")
	}
	if got := config.GetDecodeAudioSubchannels(); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("GetDecodeAudioSubchannels() = %v, want [1 4]", got)
	}
	if got := config.GetDecodeDataSubchannels(); len(got) != 1 || got[0] != 7 {
		t.Errorf("GetDecodeDataSubchannels() = %v, want [7]", got)
	}
	if got := config.GetPlayAudioSubchannels(); len(got) != 1 || got[0] != 1 {
		t.Errorf("GetPlayAudioSubchannels() = %v, want [1]", got)
	}
	if config.GetDatabasePath() != "/var/lib/dabreceiver/ensemble.db" {
		t.Errorf("GetDatabasePath() = %q, want %q", config.GetDatabasePath(), "/var/lib/dabreceiver/ensemble.db")
	}
	if config.GetSlideshowDirectory() != "/var/lib/dabreceiver/slideshow" {
		t.Errorf("GetSlideshowDirectory() = %q, want %q", config.GetSlideshowDirectory(), "/var/lib/dabreceiver/slideshow")
	}
}

func TestConfig_LoadFromString(t *testing.T) {
	testConfig := `[Receiver]
TransmissionMode=2
IngestAddress=eti.local:9200

[Subchannels]
DecodeAudio=3`

	config := NewConfig("")
	if err := config.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if config.GetTransmissionMode() != 2 {
		t.Errorf("GetTransmissionMode() = %d, want 2", config.GetTransmissionMode())
	}
	if config.GetIngestAddress() != "eti.local:9200" {
		t.Errorf("GetIngestAddress() = %q, want %q", config.GetIngestAddress(), "eti.local:9200")
	}
	if got := config.GetDecodeAudioSubchannels(); len(got) != 1 || got[0] != 3 {
		t.Errorf("GetDecodeAudioSubchannels() = %v, want [3]", got)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	config := NewConfig("")

	if config.GetTransmissionMode() != 1 {
		t.Errorf("GetTransmissionMode() default = %d, want 1", config.GetTransmissionMode())
	}
	if config.GetDatabasePath() != ":memory:" {
		t.Errorf("GetDatabasePath() default = %q, want %q", config.GetDatabasePath(), ":memory:")
	}
	if config.GetSlideshowDirectory() != "slideshow" {
		t.Errorf("GetSlideshowDirectory() default = %q, want %q", config.GetSlideshowDirectory(), "slideshow")
	}
	if config.GetIngestAddress() != "" {
		t.Errorf("GetIngestAddress() default = %q, want empty string", config.GetIngestAddress())
	}
	if len(config.GetDecodeAudioSubchannels()) != 0 {
		t.Errorf("GetDecodeAudioSubchannels() default = %v, want empty", config.GetDecodeAudioSubchannels())
	}
}

func TestConfig_InvalidFile(t *testing.T) {
	config := NewConfig("/nonexistent/file.ini")
	if err := config.Load(); err == nil {
		t.Error("Load() with nonexistent file should return error")
	}
}

func TestConfig_SubchannelLists(t *testing.T) {
	testConfig := `[Subchannels]
DecodeAudio=1,4,9
DecodeData=2,5
PlayAudio=4`

	config := NewConfig("")
	if err := config.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	audio := config.GetDecodeAudioSubchannels()
	expectedAudio := []uint8{1, 4, 9}
	if len(audio) != len(expectedAudio) {
		t.Fatalf("GetDecodeAudioSubchannels() length = %d, want %d", len(audio), len(expectedAudio))
	}
	for i, v := range expectedAudio {
		if audio[i] != v {
			t.Errorf("GetDecodeAudioSubchannels()[%d] = %d, want %d", i, audio[i], v)
		}
	}

	data := config.GetDecodeDataSubchannels()
	expectedData := []uint8{2, 5}
	if len(data) != len(expectedData) {
		t.Fatalf("GetDecodeDataSubchannels() length = %d, want %d", len(data), len(expectedData))
	}
	for i, v := range expectedData {
		if data[i] != v {
			t.Errorf("GetDecodeDataSubchannels()[%d] = %d, want %d", i, data[i], v)
		}
	}
}

func TestConfig_CommentedLines(t *testing.T) {
	testConfig := `[Receiver]
TransmissionMode=1
# This is a comment
#IngestAddress=commented.example:1234
IngestAddress=active.example:1234
# Another comment`

	config := NewConfig("")
	if err := config.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if config.GetIngestAddress() != "active.example:1234" {
		t.Errorf("GetIngestAddress() = %q, want %q", config.GetIngestAddress(), "active.example:1234")
	}
}

func TestConfig_MissingSection(t *testing.T) {
	testConfig := `[Nonexistent Section]
SomeKey=SomeValue`

	config := NewConfig("")
	if err := config.LoadFromString(testConfig); err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if config.GetIngestAddress() != "" {
		t.Errorf("GetIngestAddress() with missing section = %q, want empty string", config.GetIngestAddress())
	}
}

func BenchmarkConfig_Load(b *testing.B) {
	testConfig := `[Receiver]
TransmissionMode=1
IngestAddress=eti.local:9200

[Subchannels]
DecodeAudio=1,4`

	tmpfile, err := os.CreateTemp("", "bench_config_*.ini")
	if err != nil {
		b.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(testConfig)); err != nil {
		b.Fatalf("Failed to write temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		b.Fatalf("Failed to close temp file: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		config := NewConfig(tmpfile.Name())
		config.Load()
	}
}

func BenchmarkConfig_GetValues(b *testing.B) {
	config := NewConfig("")
	testConfig := `[Receiver]
TransmissionMode=1
IngestAddress=eti.local:9200`

	config.LoadFromString(testConfig)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = config.GetTransmissionMode()
		_ = config.GetIngestAddress()
	}
}
