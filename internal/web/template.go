package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/lcd-agent/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"temp": func(v float64, has bool) string {
		if !has {
			return "—"
		}
		return fmt.Sprintf("%.1f °C", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>LCD Agent</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; }
.disconnected { color: red; }
img.frame { border: 1px solid #ddd; background: #000; max-width: 240px; }
</style>
</head>
<body>
<h1>LCD Agent</h1>

<table>
<tr><th>Panel</th><td>{{.Panel.Name}} ({{.Panel.UID}})</td></tr>
<tr><th>Resolution</th><td>{{.Panel.Width}}x{{.Panel.Height}}</td></tr>
<tr><th>Primary temp</th><td>{{temp .LastReading.Primary .LastReading.HasPrimary}}</td></tr>
<tr><th>Secondary temp</th><td>{{temp .LastReading.Secondary .LastReading.HasSecondary}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}<span class="connected">connected</span>{{else}}<span class="disconnected">disconnected</span>{{end}}</td></tr>
</table>

<table>
<tr><th>Cycles</th><td>{{.Counts.Cycles}}</td></tr>
<tr><th>Renders</th><td>{{.Counts.Renders}}</td></tr>
<tr><th>Skipped (unchanged)</th><td>{{.Counts.Skipped}}</td></tr>
<tr><th>Deliveries</th><td>{{.Counts.Deliveries}}</td></tr>
<tr><th>Read errors</th><td>{{.Counts.ReadErrors}}</td></tr>
<tr><th>Compose errors</th><td>{{.Counts.ComposeErrors}}</td></tr>
<tr><th>Delivery errors</th><td>{{.Counts.DeliveryErrors}}</td></tr>
</table>

<table>
<tr><th>Daemon</th><td>{{.Config.BaseURL}}</td></tr>
<tr><th>Interval</th><td>{{.Config.IntervalMs}} ms</td></tr>
<tr><th>Brightness</th><td>{{.Config.Brightness}}</td></tr>
<tr><th>Orientation</th><td>{{.Config.Orientation}}&deg;</td></tr>
</table>

{{if .HasReading}}<p><img class="frame" src="/frame.png" alt="current frame"></p>{{end}}

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	indexTmpl.Execute(w, snap)
}
