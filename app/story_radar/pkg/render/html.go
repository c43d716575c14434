package render

import (
	"html/template"
	"io"
)

// Page 渲染单个公司研究页面所需的数据
type Page struct {
	Company    string
	Headline   string
	Date       string
	Story      string
	IsMarkdown bool
	HTML       string // 已由 markup 转换的内容，仅在 IsMarkdown 时使用
	Citations  []string
	Diagnostic string
}

const pageTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ .Company }} | Company Story</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 32px; }
        .date-info { color: var(--text-secondary); }
        .story-card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            border: 1px solid var(--border-color);
        }
        .story-card pre { white-space: pre-wrap; font-family: inherit; margin: 0; }
        .diagnostic {
            background: #fef2f2;
            border-left: 4px solid #ef4444;
            padding: 16px;
            border-radius: 8px;
        }
        .diagnostic pre { white-space: pre-wrap; margin: 0; }
        .references { margin-top: 20px; font-size: 0.9rem; }
        .ref-list { list-style: none; padding: 0; }
        .ref-list a { color: var(--primary-color); text-decoration: none; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>{{ if .Headline }}{{ .Headline }}{{ else }}{{ .Company }}{{ end }}</h1>
            {{ if .Date }}<div class="date-info">{{ .Date }}</div>{{ end }}
        </header>

        {{ if .Diagnostic }}
        <div class="diagnostic">
            <strong>Research data could not be used</strong>
            <pre>{{ .Diagnostic }}</pre>
        </div>
        {{ end }}

        {{ if .Story }}
        <div class="story-card">
            {{ if .IsMarkdown }}{{ markup .HTML }}{{ else }}<pre>{{ .Story }}</pre>{{ end }}
        </div>
        {{ end }}

        {{ if .Citations }}
        <div class="references">
            <strong>Sources</strong>
            <ul class="ref-list">
                {{ range .Citations }}
                <li><a href="{{ . }}" target="_blank">{{ . }}</a></li>
                {{ end }}
            </ul>
        </div>
        {{ end }}
    </div>
</body>
</html>
`

var pageTemplate = template.Must(template.New("story").Funcs(template.FuncMap{
	// goldmark 默认不输出原始 HTML，转换结果可直接信任
	"markup": func(s string) template.HTML { return template.HTML(s) },
}).Parse(pageTpl))

// WriteHTML 把页面渲染到 w
func WriteHTML(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
