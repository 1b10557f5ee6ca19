// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Text formats a view as plain text, one section per block.
func Text(v View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s  (%s)\n", v.Header.Label, v.Input, v.When)
	if echo := v.Echo(); echo != "" {
		fmt.Fprintf(&b, "  Interpreted as: %q\n", echo)
	}

	switch v.Kind {
	case KindPending:
		b.WriteString("  Processing...\n")

	case KindTransportError:
		section(&b, "Error", v.Error)

	case KindAppError:
		if v.Source != nil {
			fmt.Fprintf(&b, "  %s %s\n", v.Source.Marker, v.Source.Label)
		}
		section(&b, "Error", v.Error)

	case KindInterpretation:
		badges := lo.Map(v.Badges, func(bd Badge, _ int) string {
			return bd.Label + ": " + bd.Value
		})
		body := strings.Join(badges, "  ")
		if v.Source != nil {
			body = v.Source.Marker + " " + v.Source.Label + "\n" + body
		}
		section(&b, "NLP Interpretation", body)

		if v.API != nil {
			body := v.API.Method + " " + v.API.Path
			if v.API.Payload != "" {
				body += "\n" + v.API.Payload
			}
			section(&b, "API Call", body)
		}
		if v.Result != "" {
			section(&b, "Response", v.Result)
		}
	}

	return b.String()
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "  %s\n", strings.ToUpper(title))
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
}
