package service

import (
	"class_tracker/internal/model"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// 与 \w\s 对应的 Unicode 版本，保留中文等非 ASCII 字符
var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeDictation 小写、去首尾空白、去标点
func NormalizeDictation(text string) string {
	return punctuation.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
}

// SimilarityScore 按字符计算 2*LCS/(len(a)+len(b))，返回 0-100。
// 多出的错字只会让分数持平或下降
func SimilarityScore(reference, submission string) float64 {
	a := []rune(NormalizeDictation(reference))
	b := []rune(NormalizeDictation(submission))
	if len(a)+len(b) == 0 {
		return 100
	}
	return 200 * float64(lcsLength(a, b)) / float64(len(a)+len(b))
}

// lcsLength 最长公共子序列长度，两行滚动数组
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			switch {
			case a[i] == b[j]:
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// BasicDictationScore 不依赖外部服务的兜底评分
func BasicDictationScore(reference, submission string) *DictationResult {
	score := SimilarityScore(reference, submission)
	return &DictationResult{
		Score:      score,
		FeedbackEN: DictationFeedbackEN(score, reference),
		FeedbackZH: DictationFeedbackZH(score),
		Errors:     []DictationError{},
		Source:     model.ScoreSourceFallback,
	}
}

func DictationFeedbackEN(score float64, reference string) string {
	total := len(strings.Fields(reference))
	heard := int(score / 100 * float64(total))

	switch {
	case score >= 90:
		return fmt.Sprintf("Excellent listening accuracy! You correctly transcribed %d out of %d words from the audio.", heard, total)
	case score >= 80:
		return fmt.Sprintf("Good listening! You accurately heard and wrote %d out of %d words. Check the differences above to see what you missed.", heard, total)
	case score >= 70:
		return fmt.Sprintf("Fair listening accuracy. You caught %d out of %d words. Practice listening more carefully to catch all the words.", heard, total)
	case score >= 60:
		return fmt.Sprintf("You heard some words correctly (%d out of %d). Listen again to hear what you missed.", heard, total)
	default:
		return fmt.Sprintf("Keep practicing your listening! Try to focus on hearing each word clearly. You got %d out of %d words.", heard, total)
	}
}

func DictationFeedbackZH(score float64) string {
	switch {
	case score >= 90:
		return "听写很准确！你听懂了几乎所有的单词。"
	case score >= 80:
		return "听力不错！大部分单词都听对了。"
	case score >= 70:
		return "听写还可以。多练习听力，注意听清楚每个单词。"
	case score >= 60:
		return "继续练习听力！专心听每个单词的发音。"
	default:
		return "多练习听写！仔细听，慢慢写。"
	}
}

// UnifiedDiff 参考文本与学生文本的逐行差异，两者相同时返回空串
func UnifiedDiff(reference, submission string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(reference),
		B:        difflib.SplitLines(submission),
		FromFile: "Correct",
		ToFile:   "Student",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

// StripCodeFence 模型经常把 JSON 包在 ``` 代码块里
func StripCodeFence(content string) string {
	if i := strings.Index(content, "```json"); i >= 0 {
		rest := content[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(content, "```"); i >= 0 {
		rest := content[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(content)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
