package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/vertexctl/internal/api"
	"github.com/shinji-kodama/vertexctl/internal/model"
)

// responseEnvelope is the --json form of a successful API call.
type responseEnvelope struct {
	URL    string          `json:"url"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// printResponse writes an API response in the selected output format.
// Text mode pretty-prints JSON bodies and writes anything else verbatim.
func printResponse(w io.Writer, resp *api.Response) error {
	body := bytes.TrimSpace(resp.Body)

	if jsonOutput {
		env := responseEnvelope{URL: resp.URL, Status: resp.Status, Data: json.RawMessage("null")}
		if len(body) > 0 && json.Valid(body) {
			env.Data = body
		} else if len(body) > 0 {
			quoted, _ := json.Marshal(string(body))
			env.Data = quoted
		}
		return printJSON(w, env)
	}

	if len(body) == 0 {
		fmt.Fprintf(w, "%d %s\n", resp.Status, resp.URL)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Fprintln(w, string(body))
		return nil
	}
	fmt.Fprintln(w, buf.String())
	return nil
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// readBody returns the request payload given by --data or --file. Both
// accept JSONC (comments and trailing commas). It returns nil when neither
// flag is set.
func readBody(data, file string) (any, error) {
	if data != "" && file != "" {
		return nil, model.NewCLIError(model.ExitGeneralError, "--data and --file are mutually exclusive")
	}

	var raw []byte
	switch {
	case data != "":
		raw = []byte(data)
	case file != "":
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to read request body from %s", file), err)
		}
		raw = content
	default:
		return nil, nil
	}

	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}

	var body any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &body); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "request body is not valid JSON", err)
	}
	return body, nil
}

// FormatCameraTable renders cameras as an aligned text table.
func FormatCameraTable(list *model.CameraList) string {
	var sb strings.Builder

	if len(list.Cameras) == 0 {
		sb.WriteString("No cameras reported.\n")
		return sb.String()
	}

	idWidth, nameWidth := len("ID"), len("NAME")
	for _, c := range list.Cameras {
		idWidth = max(idWidth, len(c.ID))
		nameWidth = max(nameWidth, len(c.Name))
	}

	format := fmt.Sprintf("%%-%ds  %%-%ds  %%-8s  %%s\n", idWidth, nameWidth)
	fmt.Fprintf(&sb, format, "ID", "NAME", "ACTIVE", "FEED")
	for _, c := range list.Cameras {
		active := "no"
		if c.Active {
			active = "yes"
		}
		fmt.Fprintf(&sb, format, c.ID, c.Name, active, c.FeedURL)
	}
	if list.Placeholder {
		sb.WriteString("\nDevice did not report cameras; showing placeholder.\n")
	}
	return sb.String()
}
