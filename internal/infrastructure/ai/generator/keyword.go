// Package generator provides video generation backends: a deterministic
// keyword matcher, a remote HTTP provider and decorators around them.
package generator

import (
	"context"
	"strings"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// SampleBaseURL hosts the sample videos the keyword generator hands out
const SampleBaseURL = "https://storage.googleapis.com/gtv-videos-bucket/sample/"

type keywordRule struct {
	keywords []string
	video    string
}

var keywordRules = []keywordRule{
	{keywords: []string{"pasta", "mushroom"}, video: "ForBiggerBlazes.mp4"},
	{keywords: []string{"salad", "chickpea"}, video: "ForBiggerEscapes.mp4"},
	{keywords: []string{"avocado", "toast"}, video: "ForBiggerFun.mp4"},
}

const keywordDefaultVideo = "BigBuckBunny.mp4"

// KeywordGenerator picks a sample video from keywords in the recipe
// title. Ingredients are ignored. It performs no I/O.
type KeywordGenerator struct{}

// NewKeywordGenerator creates a keyword generator
func NewKeywordGenerator() *KeywordGenerator {
	return &KeywordGenerator{}
}

var _ outbound.VideoGenerator = (*KeywordGenerator)(nil)

// Generate returns the sample video of the first matching rule
func (g *KeywordGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := strings.ToLower(req.Recipe.Title)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(title, kw) {
				return SampleBaseURL + rule.video, nil
			}
		}
	}
	return SampleBaseURL + keywordDefaultVideo, nil
}
