package setup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const envPath = "local.env"

// Run is the one-time interactive configuration wizard. It is a no-op when
// local.env already exists.
func Run(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Starting AI RFP Manager setup...")

	if _, err := os.Stat(envPath); err == nil {
		fmt.Fprintln(out, "Configuration (local.env) already exists. Skipping setup.")
		return nil
	}

	reader := bufio.NewReader(in)

	port, err := prompt(reader, out, "Server port", "5000", false)
	if err != nil {
		return err
	}
	databaseURL, err := prompt(reader, out, "Postgres connection string", "", true)
	if err != nil {
		return err
	}
	geminiKey, err := prompt(reader, out, "Google Gemini API key", "", true)
	if err != nil {
		return err
	}

	var content strings.Builder
	content.WriteString("PORT=" + port + "\n")
	content.WriteString("DATABASE_URL=" + databaseURL + "\n")
	content.WriteString("GEMINI_API_KEY=" + geminiKey + "\n")

	if err := os.WriteFile(envPath, []byte(content.String()), 0600); err != nil {
		return fmt.Errorf("unable to write %s: %w", envPath, err)
	}

	fmt.Fprintln(out, "Setup complete! local.env created.")
	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, label, defaultValue string, required bool) (string, error) {
	for {
		if defaultValue != "" {
			fmt.Fprintf(out, "%s [%s]: ", label, defaultValue)
		} else {
			fmt.Fprintf(out, "%s: ", label)
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		value := strings.TrimSpace(line)

		if value == "" {
			value = defaultValue
		}
		if value == "" && required {
			fmt.Fprintln(out, "Required.")
			continue
		}
		return value, nil
	}
}
