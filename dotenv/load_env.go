package dotenv

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// LoadEnv loads variables from the given .env files into the process
// environment, overriding existing values. With no arguments it reads ./.env
// and treats a missing file as "nothing to load".
func LoadEnv(envPath ...string) error {
	if len(envPath) == 0 {
		err := godotenv.Overload(defaultEnvFile)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	return godotenv.Overload(envPath...)
}
