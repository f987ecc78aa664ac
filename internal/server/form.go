package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"hiring-assistant/internal/evaluator"
)

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Hiring Assistant</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
        .card { max-width: 520px; margin: 0 auto; background: white; border-radius: 10px; padding: 20px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
        label { display: block; margin-top: 12px; font-weight: 500; color: #444; }
        .hint { color: #888; font-size: 0.85em; }
        input, select { width: 100%; padding: 6px; margin-top: 4px; box-sizing: border-box; }
        button { margin-top: 16px; padding: 8px 16px; }
        #output { margin-top: 16px; white-space: pre-line; font-weight: bold; }
        .error { color: #dc3545; }
    </style>
</head>
<body>
<div class="card">
    <h2>Candidate Evaluation</h2>
    <form id="candidate">
        {{range .Fields}}
        <label for="{{.Name}}">{{.Label}} <span class="hint">({{.Range}})</span></label>
        <input id="{{.Name}}" name="{{.Name}}" autocomplete="off">
        {{end}}
        <label for="model">Classifier</label>
        <select id="model" name="model">
            {{range .Models}}<option value="{{.Name}}" {{if not .Available}}disabled{{end}} {{if eq .Name $.Default}}selected{{end}}>{{.Name}}</option>{{end}}
        </select>
        <button type="submit">Predict</button>
    </form>
    <div id="output"></div>
</div>
<script>
const form = document.getElementById('candidate');
const output = document.getElementById('output');
form.addEventListener('submit', async (e) => {
    e.preventDefault();
    const data = new FormData(form);
    const features = {};
    for (const [k, v] of data.entries()) { if (k !== 'model') features[k] = v; }
    const resp = await fetch('/api/evaluate', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({features: features, model: data.get('model')}),
    });
    const body = await resp.json();
    if (!resp.ok) {
        output.className = 'error';
        output.textContent = body.error;
        return;
    }
    output.className = '';
    output.textContent = 'Performance score: ' + body.performanceScore.toFixed(2) +
        '\nDecision: ' + body.decision + '  (' + body.model + ')';
});
</script>
</body>
</html>
`))

type formView struct {
	Fields  []fieldView
	Models  []evaluator.ModelStatus
	Default string
}

// handleForm serves the interactive input form.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	view := formView{
		Fields:  s.fieldViews(),
		Models:  s.eval.Models(),
		Default: s.cfg.DefaultModel,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, view); err != nil {
		log.Error().Err(err).Msg("Failed to render form")
	}
}
