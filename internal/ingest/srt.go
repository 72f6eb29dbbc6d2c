package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"cuetrack/internal/timeline"
)

// ReadSRT parses an SRT file into caption entries in file order. Blocks
// without a valid timing line are skipped.
func ReadSRT(path string, maxBytes int64) ([]timeline.Caption, error) {
	data, err := readText(path, maxBytes)
	if err != nil {
		return nil, err
	}
	return ParseSRT(string(data))
}

// ParseSRT parses SRT content.
func ParseSRT(content string) ([]timeline.Caption, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	var captions []timeline.Caption
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 {
			continue
		}
		parts := strings.SplitN(lines[timing], "-->", 2)
		start, err := parseSRTTimestamp(parts[0])
		if err != nil {
			return nil, err
		}
		// WebVTT-style cue settings may follow the end timestamp.
		endField := strings.Fields(parts[1])
		if len(endField) == 0 {
			return nil, fmt.Errorf("invalid timing line %q", lines[timing])
		}
		end, err := parseSRTTimestamp(endField[0])
		if err != nil {
			return nil, err
		}
		captions = append(captions, timeline.Caption{
			StartTime: start,
			EndTime:   end,
			Text:      strings.Join(lines[timing+1:], "\n"),
		})
	}
	return captions, nil
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// SRT uses a comma before milliseconds; accept the WebVTT period too.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
