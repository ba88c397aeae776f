package recommend

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/ostinato-fm/ostinato/pkg/routetree"
)

const layoutHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Recommendations for {{.UserName}}</title>
</head>
<body>
  <header><h1>Recommendations for {{.UserName}}</h1></header>
  <main>{{.Child}}</main>
</body>
</html>
`

const indexHTML = `<section class="recs">
  <p>{{len .Tracks}} tracks picked for {{.UserName}}</p>
  <ol>
  {{- range .Tracks}}
    <li>{{.TrackName}} — {{.ArtistName}}</li>
  {{- end}}
  </ol>
</section>
`

const rawHTML = `<section class="recs-raw">
  <table>
    <thead><tr><th>recording</th><th>score</th></tr></thead>
    <tbody>
    {{- range .Tracks}}
      <tr><td>{{.RecordingMBID}}</td><td>{{printf "%.4f" .Score}}</td></tr>
    {{- end}}
    </tbody>
  </table>
</section>
`

// layoutPage wraps whichever child page matched under the user's header.
func layoutPage(ctx context.Context) (routetree.Component, error) {
	tmpl, err := template.New("recommend-layout").Parse(layoutHTML)
	if err != nil {
		return nil, err
	}
	return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
		return tmpl.Execute(w, struct {
			UserName string
			Child    template.HTML
		}{
			UserName: view.Params.Get("userName"),
			Child:    template.HTML(view.Child),
		})
	}), nil
}

// indexPage lists the recommended tracks.
func indexPage(ctx context.Context) (routetree.Component, error) {
	tmpl, err := template.New("recommend-index").Parse(indexHTML)
	if err != nil {
		return nil, err
	}
	return payloadComponent(tmpl), nil
}

// rawPage tables the raw payload with model scores.
func rawPage(ctx context.Context) (routetree.Component, error) {
	tmpl, err := template.New("recommend-raw").Parse(rawHTML)
	if err != nil {
		return nil, err
	}
	return payloadComponent(tmpl), nil
}

func payloadComponent(tmpl *template.Template) routetree.Component {
	return routetree.ComponentFunc(func(ctx context.Context, w io.Writer, view *routetree.View) error {
		recs, ok := view.Data.(*Recommendations)
		if !ok {
			return fmt.Errorf("recommend: unexpected loader data %T", view.Data)
		}
		return tmpl.Execute(w, recs)
	})
}
