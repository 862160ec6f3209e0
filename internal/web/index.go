package web

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Eggregator</title>
<style>
body { font-family: -apple-system, system-ui, sans-serif; margin: 2rem; color: #18181b; }
table { border-collapse: collapse; width: 100%; }
th, td { padding: .5rem .75rem; border-bottom: 1px solid #e4e4e7; text-align: left; }
td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; }
th button { background: none; border: 0; font: inherit; cursor: pointer; }
.bar { display: flex; gap: 1rem; align-items: center; margin-bottom: 1rem; }
.muted { color: #71717a; }
</style>
</head>
<body>
<h1>Portfolio</h1>
<div class="bar">
  <input id="filter" placeholder="Filter exchanges...">
  <span id="columns"></span>
</div>
<table>
  <thead><tr id="head"></tr></thead>
  <tbody id="body"></tbody>
</table>
<div class="bar">
  <span id="summary" class="muted"></span>
  <button id="prev">Previous</button>
  <span id="page"></span>
  <button id="next">Next</button>
</div>
<script>
const numeric = new Set(["amount", "price", "total"]);
const state = { sort: [], filter: "", hide: new Set(), page: 0 };

function query() {
  const p = new URLSearchParams();
  if (state.sort.length) p.set("sort", state.sort.map(s => s.id + ":" + s.dir).join(","));
  if (state.filter) p.set("filter", state.filter);
  if (state.hide.size) p.set("hide", [...state.hide].join(","));
  p.set("page", state.page);
  return p.toString();
}

function headerClick(id) {
  const cur = state.sort.find(s => s.id === id);
  state.sort = [{ id: id, dir: cur && cur.dir === "asc" ? "desc" : "asc" }];
  load();
}

function render(data) {
  const visible = data.columns.filter(c => c.visible);
  const head = document.getElementById("head");
  head.innerHTML = "";
  visible.forEach(c => {
    const th = document.createElement("th");
    if (numeric.has(c.id)) th.className = "num";
    if (c.sortable) {
      const b = document.createElement("button");
      b.textContent = c.label + (c.sort === "asc" ? " ↑" : c.sort === "desc" ? " ↓" : "");
      b.onclick = () => headerClick(c.id);
      th.appendChild(b);
    } else {
      th.textContent = c.label;
    }
    head.appendChild(th);
  });

  const body = document.getElementById("body");
  body.innerHTML = "";
  if (data.rows.length === 0) {
    body.innerHTML = "<tr><td colspan=\"" + visible.length + "\">" + data.empty + "</td></tr>";
  }
  data.rows.forEach(r => {
    const tr = document.createElement("tr");
    visible.forEach(c => {
      const td = document.createElement("td");
      if (numeric.has(c.id)) td.className = "num";
      if (c.id === "actions") {
        data.actions.forEach(a => {
          const link = document.createElement("a");
          link.href = a.url;
          link.target = "_blank";
          link.rel = "noopener";
          link.textContent = a.label;
          td.appendChild(link);
          td.appendChild(document.createTextNode(" "));
        });
      } else {
        td.textContent = r[c.id];
      }
      tr.appendChild(td);
    });
    body.appendChild(tr);
  });

  const cols = document.getElementById("columns");
  cols.innerHTML = "";
  data.columns.filter(c => c.hideable).forEach(c => {
    const label = document.createElement("label");
    const box = document.createElement("input");
    box.type = "checkbox";
    box.checked = c.visible;
    box.onchange = () => { box.checked ? state.hide.delete(c.id) : state.hide.add(c.id); load(); };
    label.appendChild(box);
    label.appendChild(document.createTextNode(" " + c.label + " "));
    cols.appendChild(label);
  });

  document.getElementById("summary").textContent = data.summary;
  document.getElementById("page").textContent = "Page " + (data.page + 1) + " of " + Math.max(data.pages, 1);
  document.getElementById("prev").disabled = data.page <= 0;
  document.getElementById("next").disabled = data.page + 1 >= data.pages;
  state.page = data.page;
}

function load() {
  fetch("/rows?" + query()).then(r => r.json()).then(render);
}

document.getElementById("filter").oninput = e => { state.filter = e.target.value; state.page = 0; load(); };
document.getElementById("prev").onclick = () => { state.page--; load(); };
document.getElementById("next").onclick = () => { state.page++; load(); };

const stream = new EventSource("/rows/stream");
stream.addEventListener("rows", load);
load();
</script>
</body>
</html>
`
