package loader

import (
	"fmt"
	"io"
	"strings"

	"supportbot/internal/domain"
)

// ParseFAQsJSONL reads {"question": ..., "answer": ...} objects, one per line.
func ParseFAQsJSONL(r io.Reader) ([]domain.FAQ, error) {
	var faqs []domain.FAQ

	err := scanJSONL(r, func(line int, record map[string]interface{}) error {
		if err := validateRecord(faqRecordSchema, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		faqs = append(faqs, domain.FAQ{
			Question: strings.TrimSpace(asString(record["question"])),
			Answer:   strings.TrimSpace(asString(record["answer"])),
		})
		return nil
	})

	return faqs, err
}

// ParseFAQText reads blank-line-delimited sections. The first line of a
// section is the question, the rest is the answer. "Q:" and "A:" prefixes
// are dropped.
func ParseFAQText(r io.Reader) ([]domain.FAQ, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var faqs []domain.FAQ
	for _, section := range strings.Split(text, "\n\n") {
		lines := nonEmptyLines(section)
		if len(lines) == 0 {
			continue
		}

		question := trimLabel(lines[0], "q:", "question:")
		answer := ""
		if len(lines) > 1 {
			lines[1] = trimLabel(lines[1], "a:", "answer:")
			answer = strings.Join(lines[1:], "\n")
		}

		faqs = append(faqs, domain.FAQ{Question: question, Answer: answer})
	}

	return faqs, nil
}

func nonEmptyLines(section string) []string {
	var out []string
	for _, l := range strings.Split(section, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func trimLabel(line string, labels ...string) string {
	lower := strings.ToLower(line)
	for _, label := range labels {
		if strings.HasPrefix(lower, label) {
			return strings.TrimSpace(line[len(label):])
		}
	}
	return line
}
