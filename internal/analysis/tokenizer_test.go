// internal/analysis/tokenizer_test.go
package analysis

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "基本分词",
			text: "Hello World",
			want: []string{"hello", "world"},
		},
		{
			name: "标点替换为空格",
			text: "I love coding, a lot!",
			want: []string{"i", "love", "coding", "a", "lot"},
		},
		{
			name: "缩写被拆散",
			text: "don't stop",
			want: []string{"don", "t", "stop"},
		},
		{
			name: "连续空白折叠",
			text: "a   b\t\nc",
			want: []string{"a", "b", "c"},
		},
		{
			name: "空输入",
			text: "",
			want: []string{},
		},
		{
			name: "纯标点",
			text: "?!... --",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, 期望 %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "三种句末标点",
			text: "First. Second! Third?",
			want: []string{"First", "Second", "Third"},
		},
		{
			name: "连续标点视为一个分隔",
			text: "Wow!!! Really?!",
			want: []string{"Wow", "Really"},
		},
		{
			name: "无句末标点的残余文本计为一句",
			text: "no punctuation here",
			want: []string{"no punctuation here"},
		},
		{
			name: "空段剔除",
			text: "...",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, 期望 %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentenceTerminators(t *testing.T) {
	// 句末标点串与句子一一对应，用于问句/感叹句占比
	terms := sentenceTerminators("Hi! How are you? ok")
	want := []string{"!", "?", ""}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("sentenceTerminators = %v, 期望 %v", terms, want)
	}
}
