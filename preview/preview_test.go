package preview

import "testing"

func TestSummarizeSelfContained(t *testing.T) {
	code := `<!doctype html>
<html>
<head>
  <title> Todo App </title>
  <style>body { margin: 0 }</style>
</head>
<body>
  <input type="text" aria-label="New todo">
  <button>Add</button>
  <img src="data:image/png;base64,AAAA">
  <img src="logo.png" alt="">
  <script>document.querySelector('button').onclick = () => {}</script>
</body>
</html>`

	s, err := Summarize(code)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if s.Title != "Todo App" {
		t.Errorf("Title = %q", s.Title)
	}
	if s.InlineStyles != 1 || s.InlineScripts != 1 {
		t.Errorf("inline styles = %d, scripts = %d", s.InlineStyles, s.InlineScripts)
	}
	if s.InteractiveTags != 2 {
		t.Errorf("InteractiveTags = %d, want 2", s.InteractiveTags)
	}
	if s.ImagesNoAlt != 1 {
		t.Errorf("ImagesNoAlt = %d, want 1", s.ImagesNoAlt)
	}
	if !s.SelfContained() {
		t.Errorf("expected self-contained, external = %v", s.ExternalAssets)
	}
}

func TestSummarizeExternalAssets(t *testing.T) {
	code := `<html><head>
<link rel="stylesheet" href="https://cdn.example.com/bootstrap.css">
<script src="https://cdn.example.com/app.js"></script>
</head><body></body></html>`

	s, err := Summarize(code)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if s.SelfContained() {
		t.Fatal("expected external assets")
	}
	if len(s.ExternalAssets) != 2 {
		t.Errorf("ExternalAssets = %v", s.ExternalAssets)
	}
	if s.InlineScripts != 0 {
		t.Errorf("InlineScripts = %d, want 0", s.InlineScripts)
	}
}

func TestSummarizeFragment(t *testing.T) {
	s, err := Summarize("not really html")
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if s.Title != "" || s.InlineStyles != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
}
