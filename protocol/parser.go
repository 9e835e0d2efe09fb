package protocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stagd/stagd"
)

var disallowedBucketCharsRegex = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// ParseLine parses a single metric sample line
// supported format: "<bucket>:<value>|<type>[|@<sampleRate>]".
func ParseLine(input []byte) (*Sample, error) {
	if !isPrintableASCII(input) {
		return nil, fmt.Errorf("non-ascii or non-printable chars in sample: '%s'", input)
	}

	inputScanner := stagd.NewBytesScanner(input, ':')
	if !inputScanner.HasNext() {
		return nil, fmt.Errorf("missing bucket separator: '%s'", input)
	}
	bucketBytes := inputScanner.Next()
	if !inputScanner.HasNext() {
		return nil, fmt.Errorf("missing value: '%s'", input)
	}
	payloadBytes := inputScanner.Next()
	if inputScanner.HasNext() {
		return nil, fmt.Errorf("too many colon-separated items: '%s'", input)
	}

	bucket := sanitizeBucket(stagd.UnsafeBytesToString(bucketBytes))
	if len(bucket) == 0 {
		return nil, fmt.Errorf("empty bucket name: '%s'", input)
	}

	payloadScanner := stagd.NewBytesScanner(payloadBytes, '|')
	if !payloadScanner.HasNext() {
		return nil, fmt.Errorf("missing type separator: '%s'", input)
	}
	valueBytes := payloadScanner.Next()
	if !payloadScanner.HasNext() {
		return nil, fmt.Errorf("missing sample type: '%s'", input)
	}
	typeBytes := payloadScanner.Next()

	rate := 1.0
	if payloadScanner.HasNext() {
		rateBytes := payloadScanner.Next()
		parsedRate, err := parseRate(rateBytes)
		if err != nil {
			return nil, fmt.Errorf("cannot parse sample rate: '%s' (%s)", input, err)
		}
		rate = parsedRate
	}
	if payloadScanner.HasNext() {
		return nil, fmt.Errorf("too many pipe-separated items: '%s'", input)
	}

	sample := &Sample{
		Bucket: bucket,
		Type:   SampleType(typeBytes),
		Rate:   rate,
	}

	switch sample.Type {
	case Set:
		if len(valueBytes) == 0 {
			return nil, fmt.Errorf("empty set value: '%s'", input)
		}
		sample.StringValue = string(valueBytes)
	case Counter, Gauge, Timer:
		if len(valueBytes) == 0 {
			return nil, fmt.Errorf("empty value: '%s'", input)
		}
		value, err := strconv.ParseFloat(stagd.UnsafeBytesToString(valueBytes), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse value: '%s' (%s)", input, err)
		}
		sample.Value = value
		if sample.Type == Gauge && (valueBytes[0] == '+' || valueBytes[0] == '-') {
			sample.IsDelta = true
		}
	default:
		return nil, fmt.Errorf("unknown sample type '%s': '%s'", typeBytes, input)
	}

	return sample, nil
}

func parseRate(rateBytes []byte) (float64, error) {
	if len(rateBytes) < 2 || rateBytes[0] != '@' {
		return 0, fmt.Errorf("expected '@<rate>', got '%s'", rateBytes)
	}
	rate, err := strconv.ParseFloat(stagd.UnsafeBytesToString(rateBytes[1:]), 64)
	if err != nil {
		return 0, err
	}
	if rate <= 0 || rate > 1 {
		return 0, fmt.Errorf("rate %v out of (0, 1]", rate)
	}
	return rate, nil
}

// sanitizeBucket normalizes a bucket name the way graphite expects it:
// whitespace becomes '_', '/' becomes '-', everything else outside
// [a-zA-Z0-9._-] is removed.
func sanitizeBucket(bucket string) string {
	bucket = strings.Join(strings.Fields(bucket), "_")
	bucket = strings.ReplaceAll(bucket, "/", "-")
	return disallowedBucketCharsRegex.ReplaceAllString(bucket, "")
}

// DropCRLF removes a trailing CR/LF pair or a single trailing CR or LF.
func DropCRLF(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

func isPrintableASCII(b []byte) bool {
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			return false
		}
	}

	return true
}
