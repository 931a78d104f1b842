package service

import (
	"class_tracker/internal/model"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDictation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase and trim", in: "  The Cat ", want: "the cat"},
		{name: "strip punctuation", in: "Hello, world! It's fine.", want: "hello world its fine"},
		{name: "keep underscores and digits", in: "room_12?", want: "room_12"},
		{name: "keep non ascii letters", in: "你好，世界。", want: "你好世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDictation(tt.in))
		})
	}
}

func TestSimilarityScore(t *testing.T) {
	ref := "The quick brown fox jumps over the lazy dog."

	assert.Equal(t, 100.0, SimilarityScore(ref, ref))
	// 大小写和标点不影响分数
	assert.Equal(t, 100.0, SimilarityScore(ref, "the quick brown fox jumps over the lazy dog"))
	assert.Equal(t, 0.0, SimilarityScore(ref, ""))

	oneTypo := SimilarityScore(ref, "The quick brown fox jumps over the lazy dig.")
	twoTypos := SimilarityScore(ref, "The quick brown fax jumps over the lazy dig.")
	missingWords := SimilarityScore(ref, "The brown fox over the dog.")

	assert.Less(t, oneTypo, 100.0)
	assert.Less(t, twoTypos, oneTypo)
	assert.Less(t, missingWords, twoTypos)
	assert.Greater(t, missingWords, 0.0)
}

func TestSimilarityScore_MoreErrorsNeverScoreHigher(t *testing.T) {
	// 重复单词时贪心匹配容易出错
	assert.GreaterOrEqual(t,
		SimilarityScore("on cat cat cat", "on catzcat cat"),
		SimilarityScore("on cat cat cat", "on catzczt cat"))

	words := []string{"on", "cat", "the", "dog", "sat", "mat", "a", "lazy", "fox"}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := 2 + rng.Intn(6)
		parts := make([]string, n)
		for j := range parts {
			parts[j] = words[rng.Intn(len(words))]
		}
		ref := strings.Join(parts, " ")

		runes := []rune(ref)
		p1 := rng.Intn(len(runes))
		p2 := rng.Intn(len(runes))
		if p1 == p2 || runes[p1] == 'z' || runes[p2] == 'z' {
			continue
		}
		one := append([]rune{}, runes...)
		one[p1] = 'z'
		two := append([]rune{}, one...)
		two[p2] = 'z'

		s1 := SimilarityScore(ref, string(one))
		s2 := SimilarityScore(ref, string(two))
		if !assert.LessOrEqualf(t, s2, s1, "ref=%q one=%q two=%q", ref, string(one), string(two)) {
			return
		}
		assert.Less(t, s1, 100.0)
	}
}

func TestBasicDictationScore(t *testing.T) {
	result := BasicDictationScore("I like apples.", "I like apples")

	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, model.ScoreSourceFallback, result.Source)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Excellent listening accuracy! You correctly transcribed 3 out of 3 words from the audio.", result.FeedbackEN)
	assert.Equal(t, "听写很准确！你听懂了几乎所有的单词。", result.FeedbackZH)
}

func TestDictationFeedbackBands(t *testing.T) {
	ref := "one two three four five six seven eight nine ten"

	tests := []struct {
		score  float64
		wantEN string
		wantZH string
	}{
		{score: 95, wantEN: "Excellent listening accuracy! You correctly transcribed 9 out of 10 words from the audio.", wantZH: "听写很准确！你听懂了几乎所有的单词。"},
		{score: 85, wantEN: "Good listening! You accurately heard and wrote 8 out of 10 words. Check the differences above to see what you missed.", wantZH: "听力不错！大部分单词都听对了。"},
		{score: 70, wantEN: "Fair listening accuracy. You caught 7 out of 10 words. Practice listening more carefully to catch all the words.", wantZH: "听写还可以。多练习听力，注意听清楚每个单词。"},
		{score: 60, wantEN: "You heard some words correctly (6 out of 10). Listen again to hear what you missed.", wantZH: "继续练习听力！专心听每个单词的发音。"},
		{score: 12, wantEN: "Keep practicing your listening! Try to focus on hearing each word clearly. You got 1 out of 10 words.", wantZH: "多练习听写！仔细听，慢慢写。"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantEN, DictationFeedbackEN(tt.score, ref))
		assert.Equal(t, tt.wantZH, DictationFeedbackZH(tt.score))
	}
}

func TestUnifiedDiff(t *testing.T) {
	assert.Empty(t, UnifiedDiff("same text", "same text"))

	diff := UnifiedDiff("the lazy dog\n", "the lazy dig\n")
	assert.Contains(t, diff, "--- Correct")
	assert.Contains(t, diff, "+++ Student")
	assert.Contains(t, diff, "-the lazy dog")
	assert.Contains(t, diff, "+the lazy dig")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: ` {"score": 90} `, want: `{"score": 90}`},
		{name: "json fence", in: "```json\n{\"score\": 90}\n```", want: `{"score": 90}`},
		{name: "bare fence", in: "Here you go:\n```\n{\"score\": 90}\n```\nThanks", want: `{"score": 90}`},
		{name: "unterminated fence", in: "```json\n{\"score\": 90}", want: `{"score": 90}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-5, 0, 100))
	assert.Equal(t, 100.0, clamp(120, 0, 100))
	assert.Equal(t, 42.5, clamp(42.5, 0, 100))
}
