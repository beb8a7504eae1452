package engine

import "strings"

// Metadata responses are key="value" pairs, one per line, values
// double-quote-delimited. Lines that don't match are ignored.

func ParseMetadata(body string) map[string]string {
	meta := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = val[1 : len(val)-1]
		}
		meta[key] = val
	}
	return meta
}

// RequestMetadata fetches metadata for a queued request by its opaque id.
func (g *Gateway) RequestMetadata(requestID string) (map[string]string, error) {
	body, err := g.client.SendCommand("request.metadata "+requestID, g.timeout)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(body), nil
}

// SourceMetadata fetches the currently-playing metadata for an engine
// source (e.g. the output source feeding the stream).
func (g *Gateway) SourceMetadata(source string) (map[string]string, error) {
	body, err := g.client.SendCommand(source+".metadata", g.timeout)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(body), nil
}
