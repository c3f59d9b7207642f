package review

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/router"
)

func testResult() Result {
	return Result{
		Section:  "第3セクション",
		Score:    1,
		Attempts: 3,
		Completed: []quiz.Question{
			quiz.NewQuestion("Swiftの変数を宣言するキーワードは？", []string{"var", "let"}, "var"),
			quiz.NewQuestion("Swiftのプロトコルは何を定義するためのものですか？", nil, "仕様や契約"),
		},
	}
}

func TestReviewScreen_Title(t *testing.T) {
	r := New(testResult())
	if r.Title() != "復習セクション" {
		t.Errorf("Title = %q, want %q", r.Title(), "復習セクション")
	}
}

func TestReviewScreen_Display(t *testing.T) {
	r := New(testResult())
	view := r.View(100, 40)
	for _, want := range []string{"スコア: 1", "回答数: 3", "完了: 2", "正解: var", "正解: 仕様や契約"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReviewScreen_Empty(t *testing.T) {
	r := New(Result{})
	if view := r.View(80, 24); !strings.Contains(view, "完了した問題はありません") {
		t.Errorf("view = %q, want empty notice", view)
	}
}

func TestReviewScreen_Scroll(t *testing.T) {
	r := New(testResult())
	r.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if r.offset != 1 {
		t.Errorf("offset = %d, want 1", r.offset)
	}
	r.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if r.offset != 1 {
		t.Errorf("offset = %d, should stop at last entry", r.offset)
	}
	r.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	r.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if r.offset != 0 {
		t.Errorf("offset = %d, want 0", r.offset)
	}
}

func TestReviewScreen_Navigation_Enter(t *testing.T) {
	r := New(testResult())
	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}
}

func TestFromSnapshot(t *testing.T) {
	sec := quiz.NewSection("s", []quiz.Question{quiz.NewQuestion("Q", nil, "a")})
	eng := sec.NewEngine(quiz.WithScheduler(nil))
	if err := eng.SubmitTextEntry("a"); err != nil {
		t.Fatal(err)
	}
	res := FromSnapshot(sec.Title, eng.Snapshot())
	if res.Score != 1 || res.Attempts != 1 || len(res.Completed) != 1 {
		t.Errorf("result = %+v", res)
	}
}
