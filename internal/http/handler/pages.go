package handler

import "github.com/gofiber/fiber/v2"

// RegisterPages attaches the static HTML surface: the download page the share
// URLs point at, plus the OpenAPI spec and Swagger UI.
func RegisterPages(app *fiber.App) {
	// Download page parameterized by ?id=<id>. It fetches /meta/:id for
	// display and posts the password (if any) to /download/:id.
	app.Get("/download", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(downloadPage)
	})

	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})

	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(swaggerPage)
	})
}

const downloadPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>FileDrop</title>
  <style>
    body { font-family: sans-serif; max-width: 28rem; margin: 4rem auto; padding: 0 1rem; }
    input, button { font-size: 1rem; padding: .5rem; }
    .error { color: #b00; }
  </style>
</head>
<body>
  <h1>FileDrop</h1>
  <div id="info">Loading&hellip;</div>
  <form id="dl" method="post" style="display:none">
    <p id="pw-row" style="display:none">
      <input type="password" name="password" placeholder="Password" />
    </p>
    <button type="submit">Download</button>
  </form>
  <script>
    const id = new URLSearchParams(location.search).get('id');
    const info = document.getElementById('info');
    const form = document.getElementById('dl');
    if (!id) {
      info.textContent = 'Missing file id.';
      info.className = 'error';
    } else {
      fetch('/meta/' + encodeURIComponent(id))
        .then(r => { if (!r.ok) throw new Error('not found'); return r.json(); })
        .then(meta => {
          info.textContent = meta.originalName + ' (expires ' + new Date(meta.expiresAt).toLocaleString() + ')';
          form.action = '/download/' + encodeURIComponent(id);
          form.style.display = '';
          if (meta.passwordProtected) {
            document.getElementById('pw-row').style.display = '';
          }
        })
        .catch(() => {
          info.textContent = 'This file does not exist or has expired.';
          info.className = 'error';
        });
    }
  </script>
</body>
</html>`

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
