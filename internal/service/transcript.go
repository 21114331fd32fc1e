package service

import (
	"regexp"
	"sort"
	"strings"
)

// The transcript API returns different shapes depending on diarization:
// participantOne/participantTwo, allParticipants, channel results, or a
// plain transcript string. The extractor tolerates all of them and renders
// clean single-stream sentences without speaker labels.

var (
	speakerPrefixRe = regexp.MustCompile(`(?i)^(Dispatcher|Caller|Agent|Operator|Customer|Caller\s*\d+|Participant\s*One|Participant\s*Two)\s*[:\-]\s*`)
	sentenceEndRe   = regexp.MustCompile(`[.!?]["')\]]*$`)

	spaceBeforePunctRe = regexp.MustCompile(`\s+([,.;:!?])`)
	openParenSpaceRe   = regexp.MustCompile(`\(\s+`)
	closeParenSpaceRe  = regexp.MustCompile(`\s+\)`)
	multiSpaceRe       = regexp.MustCompile(`\s{2,}`)
)

type transcriptToken struct {
	start float64
	text  string
}

// normalizeSpaces removes spaces before punctuation and collapses runs
func normalizeSpaces(s string) string {
	s = spaceBeforePunctRe.ReplaceAllString(s, "$1")
	s = openParenSpaceRe.ReplaceAllString(s, "(")
	s = closeParenSpaceRe.ReplaceAllString(s, ")")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func lowerKeys(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[strings.ToLower(k)] = v
	}
	return out
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}

// collectParticipant pulls timed tokens out of a participant object holding
// parallel "phrases" and "phraseSegments" arrays.
func collectParticipant(part map[string]interface{}, out *[]transcriptToken) {
	if part == nil {
		return
	}
	p := lowerKeys(part)

	phrases := asSlice(p["phrases"])
	segs := asSlice(p["phrasesegments"])
	if phrases == nil || segs == nil {
		return
	}

	for _, rawSeg := range segs {
		seg := asMap(rawSeg)
		if seg == nil {
			continue
		}
		s := lowerKeys(seg)

		idxVal, ok := s["phraseindex"]
		if !ok {
			continue
		}
		idx := int(asFloat(idxVal))
		if idx < 0 || idx >= len(phrases) {
			continue
		}

		text, _ := phrases[idx].(string)
		text = speakerPrefixRe.ReplaceAllString(strings.TrimSpace(text), "")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		*out = append(*out, transcriptToken{
			start: asFloat(s["starttimeoffset"]),
			text:  text,
		})
	}
}

// transcriptTokens returns a chronological token list from any response shape
func transcriptTokens(doc map[string]interface{}) []transcriptToken {
	if doc == nil {
		return nil
	}
	j := lowerKeys(doc)

	var out []transcriptToken

	// prefer diarized participants, but drop the speaker split
	if _, ok := j["participantone"]; ok {
		collectParticipant(asMap(j["participantone"]), &out)
		collectParticipant(asMap(j["participanttwo"]), &out)
	} else if _, ok := j["participanttwo"]; ok {
		collectParticipant(asMap(j["participanttwo"]), &out)
	}

	if all, ok := j["allparticipants"]; ok {
		collectParticipant(asMap(all), &out)
	}

	for _, rawCh := range asSlice(j["channels"]) {
		ch := asMap(rawCh)
		if ch == nil {
			continue
		}
		for _, rawSeg := range asSlice(lowerKeys(ch)["results"]) {
			seg := asMap(rawSeg)
			if seg == nil {
				continue
			}
			s := lowerKeys(seg)
			text, _ := s["text"].(string)
			text = speakerPrefixRe.ReplaceAllString(strings.TrimSpace(text), "")
			if text == "" {
				continue
			}
			out = append(out, transcriptToken{start: asFloat(s["start"]), text: text})
		}
	}

	if plain, ok := j["transcript"].(string); ok && len(out) == 0 && strings.TrimSpace(plain) != "" {
		out = append(out, transcriptToken{text: strings.TrimSpace(plain)})
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].start < out[b].start })
	return out
}

// ExtractCleanLines builds readable sentence lines from a raw transcript
// document: tokens are joined until a sentence terminator, then tidied.
func ExtractCleanLines(doc map[string]interface{}) []string {
	toks := transcriptTokens(doc)
	if len(toks) == 0 {
		return nil
	}

	var lines []string
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if text := normalizeSpaces(strings.Join(buf, " ")); text != "" {
			lines = append(lines, text)
		}
		buf = buf[:0]
	}

	for _, t := range toks {
		tok := strings.TrimSpace(t.text)
		if tok == "" {
			continue
		}
		buf = append(buf, tok)
		if sentenceEndRe.MatchString(tok) {
			flush()
		}
	}
	flush()

	// tokens but no terminators at all: return one joined line
	if len(lines) == 0 {
		parts := make([]string, 0, len(toks))
		for _, t := range toks {
			parts = append(parts, t.text)
		}
		if text := normalizeSpaces(strings.Join(parts, " ")); text != "" {
			lines = []string{text}
		}
	}

	return lines
}
