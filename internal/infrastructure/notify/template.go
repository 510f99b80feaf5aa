package notify

const strategicHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>{{.Count}} Critical Strategic Alerts</title>
  <style>
    body { margin: 0; padding: 24px; background-color: #f3f4f6; font-family: Arial, sans-serif; color: #333333; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px; }
    h2 { color: #d9381e; }
    .item { margin-bottom: 20px; padding: 15px; background: #fff8f8; border-left: 4px solid #d9381e; border-radius: 4px; }
    .badge { font-size: 10px; font-weight: bold; background: #d9381e; color: #ffffff; padding: 3px 6px; border-radius: 3px; }
    .item h4 { margin: 10px 0 5px 0; }
    .item a { color: #0056b3; text-decoration: none; }
    .reason { font-size: 13px; color: #555555; margin: 0 0 10px 0; }
    .rec-label { font-size: 12px; color: #d9381e; }
    .rec { font-size: 12px; margin: 5px 0 0 0; }
    .footer { font-size: 11px; color: #999999; border-top: 1px solid #eeeeee; margin-top: 20px; padding-top: 10px; }
  </style>
</head>
<body>
  <div class="container">
    <h2>Critical Intelligence Alert</h2>
    <p>Market Radar detected <strong>{{.Count}}</strong> new high-impact market events (score &gt; {{.Threshold}}) in the last scan.</p>
    {{range .Items}}
    <div class="item">
      <span class="badge">{{.Category}} (Score: {{.Score}}/10)</span>
      <h4>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</h4>
      <p class="reason">{{.Reason}}</p>
      {{if .Recommendation}}
      <strong class="rec-label">Recommendation:</strong>
      <p class="rec">{{.Recommendation}}</p>
      {{end}}
    </div>
    {{end}}
    {{if .DashboardURL}}<p class="footer">Check your <a href="{{.DashboardURL}}">dashboard</a> for full details.</p>{{end}}
  </div>
</body>
</html>`

const customerPulseHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>Customer Pulse Update</title>
  <style>
    body { margin: 0; padding: 24px; background-color: #f3f4f6; font-family: Arial, sans-serif; color: #333333; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 24px; }
    h2 { color: #0ea5e9; }
    .breakdown { background: #f0f9ff; padding: 15px; border-radius: 8px; margin: 20px 0; }
    .breakdown ul { list-style: none; padding: 0; }
    .positive { color: #16a34a; }
    .stock { color: #dc2626; }
    .service { color: #ea580c; }
    .footer { font-size: 11px; color: #999999; border-top: 1px solid #eeeeee; margin-top: 30px; padding-top: 10px; }
  </style>
</head>
<body>
  <div class="container">
    <h2>Customer Pulse Update</h2>
    <p>Market Radar has just processed <strong>{{.Reviews}}</strong> new customer reviews.</p>
    <div class="breakdown">
      <h3>Summary Breakdown</h3>
      <ul>
        <li><strong class="positive">Positive:</strong> {{.Positive}} reviews</li>
        <li><strong class="stock">Stock Issues:</strong> {{.StockIssue}} reviews</li>
        <li><strong class="service">Service Issues:</strong> {{.ServiceIssue}} reviews</li>
        <li><strong>Neutral:</strong> {{.Neutral}} reviews</li>
      </ul>
    </div>
    <p>If stock or service issues are high, review them on the dashboard.</p>
    {{if .DashboardURL}}<p class="footer">Check your <a href="{{.DashboardURL}}">dashboard</a> for full details.</p>{{end}}
  </div>
</body>
</html>`
