package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard serves the static shell; the page pulls live data from
// /api/state itself.
func (h *Handler) Dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>CallSight</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 860px; color: #222; }
  h1 { font-size: 1.4rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border-bottom: 1px solid #ddd; padding: .5rem .75rem; text-align: left; font-size: .9rem; }
  .score { font-weight: 600; }
</style>
</head>
<body>
<h1>CallSight — recent call analyses</h1>
<table>
  <thead><tr><th>Created</th><th>Agent</th><th>Quality</th><th>Sentiment</th><th>Outcome</th><th>Adherence</th></tr></thead>
  <tbody id="calls"></tbody>
</table>
<script>
fetch('/api/state').then(r => r.json()).then(state => {
  const rows = (state.calls || []).map(c =>
    '<tr><td>' + new Date(c.createdAt).toLocaleString() + '</td>' +
    '<td>' + c.agentName + '</td>' +
    '<td class="score">' + c.qualityScore + '</td>' +
    '<td>' + c.sentiment + '</td>' +
    '<td>' + c.appointmentOutcome + '</td>' +
    '<td>' + Math.round(c.scriptAdherence * 100) + '%</td></tr>');
  document.getElementById('calls').innerHTML = rows.join('');
});
</script>
</body>
</html>`
