package gate

// clientPage is the minimal browser client served at "/". It expects a
// join token in the "token" query parameter and passes it straight to
// the WebSocket endpoint.
const clientPage = `<!DOCTYPE html>
<html>
<head>
    <title>chat-relay</title>
    <style>
        body { font-family: monospace; margin: 20px; max-width: 720px; }
        #log { border: 1px solid #ccc; height: 360px; padding: 8px; overflow-y: scroll; margin: 8px 0; }
        .system { color: gray; font-style: italic; }
        .action { color: purple; }
        .error { color: red; }
        #input { width: 80%; padding: 4px; }
    </style>
</head>
<body>
    <h1>chat-relay</h1>
    <div id="log"></div>
    <input type="text" id="input" placeholder="message or /command" disabled>
    <script>
        const log = document.getElementById('log');
        const input = document.getElementById('input');
        const token = new URLSearchParams(location.search).get('token') || '';

        function line(text, cls) {
            const div = document.createElement('div');
            if (cls) div.className = cls;
            div.textContent = text;
            log.appendChild(div);
            log.scrollTop = log.scrollHeight;
        }

        function render(f) {
            switch (f.type) {
                case 'history': f.messages.forEach(render); break;
                case 'system': line('[' + f.time + '] * ' + f.message, 'system'); break;
                case 'action': line('[' + f.time + '] * ' + f.message, 'action'); break;
                case 'chat': line('[' + f.time + '] <' + f.username + '> ' + f.text); break;
                case 'users': line('online: ' + f.list.join(', '), 'system'); break;
                case 'error': line('error: ' + f.message, 'error'); break;
                case 'clear': log.innerHTML = ''; break;
            }
        }

        const scheme = location.protocol === 'https:' ? 'wss' : 'ws';
        const ws = new WebSocket(scheme + '://' + location.host + '/ws?token=' + encodeURIComponent(token));
        ws.onopen = () => {
            const name = prompt('Display name?') || '';
            ws.send(JSON.stringify({type: 'join', username: name}));
            input.disabled = false;
        };
        ws.onmessage = (e) => render(JSON.parse(e.data));
        ws.onclose = () => { line('disconnected', 'error'); input.disabled = true; };

        input.addEventListener('keypress', (e) => {
            if (e.key === 'Enter' && input.value.trim()) {
                ws.send(JSON.stringify({type: 'chat', text: input.value}));
                input.value = '';
            }
        });
    </script>
</body>
</html>`
