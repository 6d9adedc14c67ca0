// Copyright 2026 Scott Mercer
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleDemoPage serves a minimal upload form for manual testing of
// the coverage endpoint. It is not part of the API proper and is only
// mounted when demoPageEnabled is set.
func (api *apiServer) handleDemoPage(ctx *gin.Context) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>DeviceIQ - coverage test page</title>
<style>
body { font-family: sans-serif; max-width: 48em; margin: 2em auto; }
label { display: block; margin: 0.5em 0; }
pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
</style>
</head>
<body>
<h1>DeviceIQ coverage test</h1>
<p>Upload a CSV with columns <code>device_model</code>, <code>os_version</code>,
<code>usage_percent</code>.</p>
<form id="f">
<label>File: <input type="file" name="file" required></label>
<label>Threshold: <input type="number" name="threshold" min="0" max="100" step="0.1" value="90"></label>
<label>Group by:
<select name="groupBy">
<option value="">(none)</option>
<option value="device_model">device_model</option>
<option value="os_version">os_version</option>
<option value="os_major_version">os_major_version</option>
</select>
</label>
<label>API key: <input type="text" name="apiKey"></label>
<button type="submit">Compute coverage</button>
</form>
<pre id="out"></pre>
<script>
document.getElementById("f").addEventListener("submit", async (evt) => {
	evt.preventDefault();
	const form = evt.target;
	const data = new FormData();
	data.append("file", form.file.files[0]);
	const params = new URLSearchParams();
	params.set("threshold", form.threshold.value);
	if (form.groupBy.value) params.set("groupBy", form.groupBy.value);
	const headers = {};
	if (form.apiKey.value) headers["X-Api-Key"] = form.apiKey.value;
	const resp = await fetch("/coverage?" + params, {method: "POST", body: data, headers});
	document.getElementById("out").textContent = JSON.stringify(await resp.json(), null, 2);
});
</script>
</body>
</html>`

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.String(http.StatusOK, html)
}
