package server

import (
	"html/template"
	"log/slog"
	"net/http"
	"sort"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>apclimb</title>
<style>
 body { font-family: sans-serif; margin: 2em; }
 table { border-collapse: collapse; }
 th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
 th { background: #f0f0f0; }
 code { background: #f6f6f6; padding: 0 0.2em; }
</style>
</head>
<body>
<h1>Access point placement searches</h1>
{{if .}}
<table>
<tr><th>ID</th><th>State</th><th>Grid</th><th>Clients</th><th>APs</th><th>Restarts</th><th>Best score</th><th>Views</th></tr>
{{range .}}
<tr>
<td><code>{{printf "%.8s" .ID}}</code></td>
<td>{{.State}}</td>
<td>{{.Config.GridSize}}x{{.Config.GridSize}}</td>
<td>{{.Config.Clients}}</td>
<td>{{.Config.AccessPoints}}</td>
<td>{{.RestartsDone}}/{{.Config.Restarts}}</td>
<td>{{printf "%.0f" .BestScore}}</td>
<td>
<a href="/api/v1/searches/{{.ID}}/status">status</a>
<a href="/api/v1/searches/{{.ID}}/placement.html">placement</a>
<a href="/api/v1/searches/{{.ID}}/scores.html">scores</a>
</td>
</tr>
{{end}}
</table>
{{else}}
<p>No searches yet. POST to <code>/api/v1/searches</code> to start one.</p>
{{end}}
</body>
</html>
`))

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	searches := s.searchManager.ListSearches()
	sort.Slice(searches, func(i, j int) bool {
		return searches[i].StartTime.After(searches[j].StartTime)
	})

	if err := indexTemplate.Execute(w, searches); err != nil {
		slog.Error("Failed to render index", "error", err)
	}
}
