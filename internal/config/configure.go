// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/tlgrab/internal/channels"
)

// Interactive answers.
const (
	AnswerYes  = "yes"
	AnswerNo   = "no"
	AnswerAll  = "all"
	AnswerNone = "none"
)

var answers = []string{AnswerYes, AnswerNo, AnswerAll, AnswerNone}

// Configure asks, channel by channel, whether to grab it. Prompts go to out
// and answers are read from in. An empty answer or end of input means no.
// After "all" or "none" that channel and the remaining ones are decided
// without asking and echoed to out.
func Configure(in io.Reader, out io.Writer, available []channels.Channel) ([]channels.Channel, error) {
	reader := bufio.NewReader(in)
	choices := strings.Join(answers, ",")

	if _, err := fmt.Fprintln(out, "Select the channels that you want to receive data for."); err != nil {
		return nil, err
	}

	var selected []channels.Channel
	mode := ""
	for _, ch := range available {
		switch mode {
		case AnswerAll:
			selected = append(selected, ch)
			_, _ = fmt.Fprintf(out, "%s yes\n", ch.Name)
			continue
		case AnswerNone:
			_, _ = fmt.Fprintf(out, "%s no\n", ch.Name)
			continue
		}

		answer, err := ask(reader, out, fmt.Sprintf("%s [%s (default=no)] ", ch.Name, choices), choices)
		if err != nil {
			return nil, err
		}
		switch answer {
		case AnswerYes:
			selected = append(selected, ch)
		case AnswerAll:
			mode = AnswerAll
			selected = append(selected, ch)
			_, _ = fmt.Fprintf(out, "%s yes\n", ch.Name)
		case AnswerNone:
			mode = AnswerNone
			_, _ = fmt.Fprintf(out, "%s no\n", ch.Name)
		}
	}
	return selected, nil
}

func ask(reader *bufio.Reader, out io.Writer, prompt, choices string) (string, error) {
	for {
		if _, err := io.WriteString(out, prompt); err != nil {
			return "", err
		}
		line, err := reader.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if answer == "" {
			return AnswerNo, nil
		}
		for _, a := range answers {
			if answer == a {
				return answer, nil
			}
		}
		if err == io.EOF {
			return AnswerNo, nil
		}
		if _, err := fmt.Fprintf(out, "invalid response, please choose one of %s\n", choices); err != nil {
			return "", err
		}
	}
}
