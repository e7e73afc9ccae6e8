package internal

import (
	"fmt"
)

type Config struct {
	Host                 string   `env:"HOST,required=true"`
	Port                 int      `env:"PORT,required=true"`
	BadgerFilepath       string   `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string   `env:"LOG_LEVEL,required=true"`
	ConnectionBufferSize int      `env:"CONNECTION_BUFFER_SIZE,required=true"`
	AllowedOrigins       []string `env:"ALLOWED_ORIGINS"`
	LimitMessages        *int     `env:"LIMIT_MESSAGES"`
	CensoredWords        []string `env:"CENSORED_WORDS"`
	CharReplacement      string   `env:"CHARACTER_REPLACEMENT,default=*"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
