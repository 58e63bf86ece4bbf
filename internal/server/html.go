package server

// indexHTML is the upload form served at /. Flash-style messages arrive via
// the warning/error query parameters after a redirect.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Invoice Insight</title>
  <style>
    body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; }
    .flash { padding: 0.75rem 1rem; border-radius: 4px; margin-bottom: 1rem; }
    .flash.warning { background: #fff3cd; color: #664d03; }
    .flash.error { background: #f8d7da; color: #842029; }
  </style>
</head>
<body>
  <h1>Invoice Insight</h1>
  <div id="flash"></div>
  <form action="/upload" method="post" enctype="multipart/form-data">
    <p><input type="file" name="pdf" accept="application/pdf"></p>
    <p><button type="submit">Upload invoice</button></p>
  </form>
  <script>
    const params = new URLSearchParams(window.location.search);
    for (const kind of ["warning", "error"]) {
      const msg = params.get(kind);
      if (msg) {
        const div = document.createElement("div");
        div.className = "flash " + kind;
        div.textContent = msg;
        document.getElementById("flash").appendChild(div);
      }
    }
  </script>
</body>
</html>
`
