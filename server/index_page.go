package server

import (
	"bytes"
	"html/template"
)

// IndexPageData fills the generator page.
type IndexPageData struct {
	Model string
}

// RenderIndexPage renders the generator page.
func RenderIndexPage(data IndexPageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := indexPageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var indexPageTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>AI UI Generator</title>
    <style>
      :root {
        --bg: #0b1020;
        --panel: #111832;
        --text: #e9edf7;
        --muted: #a5b0cc;
        --border: rgba(255, 255, 255, 0.10);
        --accent: #7aa2ff;
        --bad: #fb7185;
        --mono: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", monospace;
        --sans: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial;
      }
      * { box-sizing: border-box; }
      body {
        margin: 0;
        font-family: var(--sans);
        color: var(--text);
        background: radial-gradient(1200px 900px at 15% 10%, rgba(122,162,255,0.18), transparent 55%), var(--bg);
      }
      main { max-width: 960px; margin: 0 auto; padding: 32px 20px; }
      h1 { margin: 0 0 4px; font-size: 28px; }
      .muted { color: var(--muted); font-size: 14px; }
      .panel {
        margin-top: 20px;
        padding: 18px;
        border: 1px solid var(--border);
        border-radius: 12px;
        background: var(--panel);
      }
      label { display: block; margin-bottom: 8px; font-weight: 600; }
      textarea {
        width: 100%;
        min-height: 120px;
        padding: 12px;
        border-radius: 8px;
        border: 1px solid var(--border);
        background: rgba(0,0,0,0.25);
        color: var(--text);
        font: inherit;
        resize: vertical;
      }
      button {
        display: inline-flex;
        align-items: center;
        gap: 8px;
        margin-top: 12px;
        padding: 10px 18px;
        border: 0;
        border-radius: 8px;
        background: var(--accent);
        color: #0b1020;
        font-weight: 700;
        cursor: pointer;
      }
      button:disabled { opacity: 0.6; cursor: progress; }
      button:focus-visible, textarea:focus-visible { outline: 3px solid #fff; outline-offset: 2px; }
      .hidden { display: none; }
      .error { margin-top: 12px; color: var(--bad); }
      .result-head { display: flex; justify-content: space-between; align-items: center; }
      pre {
        overflow: auto;
        max-height: 480px;
        padding: 14px;
        border-radius: 8px;
        background: rgba(0,0,0,0.35);
        font-family: var(--mono);
        font-size: 13px;
        white-space: pre-wrap;
      }
      .loading-spinner {
        width: 14px;
        height: 14px;
        border: 2px solid rgba(11,16,32,0.3);
        border-top-color: #0b1020;
        border-radius: 50%;
        animation: spin 0.8s linear infinite;
      }
      @keyframes spin { to { transform: rotate(360deg); } }
    </style>
  </head>
  <body>
    <main>
      <h1>AI UI Generator</h1>
      <p class="muted">Describe an interface and get a single self-contained HTML file plus accessibility suggestions.{{if .Model}} Model: {{.Model}}.{{end}}</p>

      <section class="panel">
        <label for="prompt-input">UI description</label>
        <textarea id="prompt-input" placeholder="A pricing page with three tiers and a monthly/yearly toggle"></textarea>
        <button id="generate-button" type="button"><span>Generate Code</span></button>
        <p id="error-message" class="error hidden" role="alert"></p>
      </section>

      <section id="result-container" class="panel hidden" aria-live="polite">
        <div class="result-head">
          <h2>Generated code</h2>
          <button id="copy-button" type="button">Copy</button>
        </div>
        <pre><code id="generated-code"></code></pre>
        <h2>Accessibility suggestions</h2>
        <ul id="accessibility-list"></ul>
      </section>
    </main>

    <script>
      (function () {
        var promptInput = document.getElementById('prompt-input');
        var generateButton = document.getElementById('generate-button');
        var errorMessage = document.getElementById('error-message');
        var resultContainer = document.getElementById('result-container');
        var generatedCode = document.getElementById('generated-code');
        var copyButton = document.getElementById('copy-button');
        var accessibilityList = document.getElementById('accessibility-list');

        function showError(message) {
          errorMessage.textContent = message;
          errorMessage.classList.remove('hidden');
        }

        function setBusy(busy) {
          generateButton.disabled = busy;
          generateButton.innerHTML = busy
            ? '<span class="loading-spinner"></span> Generating...'
            : '<span>Generate Code</span>';
        }

        function render(result) {
          generatedCode.textContent = result.code;
          accessibilityList.innerHTML = '';
          (result.accessibility_suggestions || []).forEach(function (suggestion) {
            var li = document.createElement('li');
            li.textContent = suggestion;
            accessibilityList.appendChild(li);
          });
          resultContainer.classList.remove('hidden');
        }

        generateButton.addEventListener('click', async function () {
          var prompt = promptInput.value.trim();
          if (!prompt) {
            showError('Please enter a description.');
            return;
          }

          errorMessage.classList.add('hidden');
          resultContainer.classList.add('hidden');
          setBusy(true);
          try {
            var resp = await fetch('/api/generate', {
              method: 'POST',
              headers: { 'Content-Type': 'application/json' },
              body: JSON.stringify({ prompt: prompt })
            });
            var body = await resp.json();
            if (!resp.ok) {
              showError(body.message || 'Failed to generate code. Please try again.');
              return;
            }
            render(body);
          } catch (err) {
            console.error('Generation request failed:', err);
            showError('Failed to generate code. Please try again.');
          } finally {
            setBusy(false);
          }
        });

        copyButton.addEventListener('click', function () {
          if (!navigator.clipboard) {
            console.error('Failed to copy text: clipboard API unavailable');
            return;
          }
          navigator.clipboard.writeText(generatedCode.textContent).catch(function (err) {
            console.error('Failed to copy text: ', err);
          });
        });
      })();
    </script>
  </body>
</html>
`))
