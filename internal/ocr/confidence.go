package ocr

import "regexp"

// Cheap signals that the decoded text looks like a clinical report rather
// than line noise. Each hit nudges the score; the engine's own word
// confidence (when TSV mode is on) dominates the blend.
var (
	reDateish = regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b|\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reHGVS    = regexp.MustCompile(`(?i)\b(?:c|p|g)\.\S+`)
	reLabeled = regexp.MustCompile(`(?m)^[\w /()\-]{2,40}\s*[:|\-]\s*\S`)
	reClassKw = regexp.MustCompile(`(?i)\b(?:pathogenic|benign|vus|uncertain significance)\b`)
)

func heuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reDateish.MatchString(txt) {
		score += 0.15
	}
	if reHGVS.MatchString(txt) {
		score += 0.2
	}
	if reLabeled.MatchString(txt) {
		score += 0.2
	}
	if reClassKw.MatchString(txt) {
		score += 0.1
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// blendConfidence weights the engine's word confidence higher when present.
func blendConfidence(engine, heuristic float32) float32 {
	var conf float32
	if engine > 0 {
		conf = 0.7*engine + 0.3*heuristic
	} else {
		conf = heuristic
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
