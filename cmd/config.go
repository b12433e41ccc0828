package main

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	HistoryLimit         int           `env:"HISTORY_LIMIT,default=200"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	GCInterval           time.Duration `env:"GC_INTERVAL,default=5m"`
	PresenceInterval     time.Duration `env:"PRESENCE_INTERVAL,default=1m"`
	CensoredWords        string        `env:"CENSORED_WORDS"`
	CensoredChar         string        `env:"CENSORED_CHARACTER,default=*"`
}

// censoredWordList splits the comma-separated CENSORED_WORDS value,
// dropping empty entries. An empty list disables moderation.
func (c Config) censoredWordList() []string {
	var words []string
	for _, w := range strings.Split(c.CensoredWords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func characterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSORED_CHARACTER must be a single character, got %q", str)
	}
	return r[0], nil
}
