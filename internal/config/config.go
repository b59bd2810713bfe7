// Package config loads the receiver's INI configuration file: the
// transmission mode and the address of the soft-bit frame stream to
// ingest, which subchannels to decode, where the
// ensemble database lives, and where slideshow images are written.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config represents the dabreceiver configuration.
type Config struct {
	filename string

	// Receiver section
	transmissionMode int
	ingestAddress    string

	// Subchannels section
	decodeAudio []uint8
	decodeData  []uint8
	playAudio   []uint8

	// Database section
	databasePath string

	// Slideshow section
	slideshowDir string
}

// NewConfig creates a new configuration instance with reasonable
// defaults.
func NewConfig(filename string) *Config {
	return &Config{
		filename:         filename,
		transmissionMode: 1,
		databasePath:     ":memory:",
		slideshowDir:     "slideshow",
	}
}

// Load loads configuration from the specified file.
func (c *Config) Load() error {
	file, err := os.Open(c.filename)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %v", c.filename, err)
	}
	defer file.Close()

	return c.parseINI(file)
}

// LoadFromString loads configuration from a string (useful for testing).
func (c *Config) LoadFromString(data string) error {
	return c.parseINIString(data)
}

func (c *Config) parseINI(file *os.File) error {
	scanner := bufio.NewScanner(file)
	return c.parseINIScanner(scanner)
}

func (c *Config) parseINIString(data string) error {
	scanner := bufio.NewScanner(strings.NewReader(data))
	return c.parseINIScanner(scanner)
}

func (c *Config) parseINIScanner(scanner *bufio.Scanner) error {
	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		// Check for section header
		if line[0] == '[' && line[len(line)-1] == ']' {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		// Parse key=value pairs
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "Receiver":
			c.parseReceiverSection(key, value)
		case "Subchannels":
			c.parseSubchannelsSection(key, value)
		case "Database":
			c.parseDatabaseSection(key, value)
		case "Slideshow":
			c.parseSlideshowSection(key, value)
		}
	}

	return scanner.Err()
}

func (c *Config) parseReceiverSection(key, value string) {
	switch key {
	case "TransmissionMode":
		if v, err := strconv.ParseInt(value, 10, 32); err == nil {
			c.transmissionMode = int(v)
		}
	case "IngestAddress":
		c.ingestAddress = value
	}
}

func (c *Config) parseSubchannelsSection(key, value string) {
	switch key {
	case "DecodeAudio":
		c.decodeAudio = c.parseByteList(value)
	case "DecodeData":
		c.decodeData = c.parseByteList(value)
	case "PlayAudio":
		c.playAudio = c.parseByteList(value)
	}
}

func (c *Config) parseDatabaseSection(key, value string) {
	switch key {
	case "Path":
		c.databasePath = value
	}
}

func (c *Config) parseSlideshowSection(key, value string) {
	switch key {
	case "Directory":
		c.slideshowDir = value
	}
}

func (c *Config) parseByteList(value string) []uint8 {
	parts := strings.Split(value, ",")
	result := make([]uint8, 0, len(parts))

	for _, part := range parts {
		if v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8); err == nil {
			result = append(result, uint8(v))
		}
	}

	return result
}

// GetTransmissionMode returns the configured DAB transmission mode (1-4).
func (c *Config) GetTransmissionMode() int { return c.transmissionMode }

// GetIngestAddress returns the address the soft-bit frame stream is read from.
func (c *Config) GetIngestAddress() string { return c.ingestAddress }

// GetDecodeAudioSubchannels returns the subchannel ids to run through the AAC decoder.
func (c *Config) GetDecodeAudioSubchannels() []uint8 { return c.decodeAudio }

// GetDecodeDataSubchannels returns the subchannel ids to run through PAD/MOT extraction only.
func (c *Config) GetDecodeDataSubchannels() []uint8 { return c.decodeData }

// GetPlayAudioSubchannels returns the subchannel ids whose decoded PCM should be routed to playback.
func (c *Config) GetPlayAudioSubchannels() []uint8 { return c.playAudio }

// GetDatabasePath returns the ensemble database backing file, or ":memory:".
func (c *Config) GetDatabasePath() string { return c.databasePath }

// GetSlideshowDirectory returns the directory slideshow images are written to.
func (c *Config) GetSlideshowDirectory() string { return c.slideshowDir }
