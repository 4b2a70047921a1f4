package ui

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sag-enhanced/webshell/src/options"
)

// bridgeScript defines window.shell(method, ...args) in the top frame. Each
// call gets a slot in window.shelld; the host settles it later with
// shelld[id].a(result) or shelld[id].b(error). A document the navigation
// guard stopped never gets it.
const bridgeScript = `(()=>{if(window.shell||window.__shellBlocked||window!==window.top)return;window.shelld=window.shelld||[];` +
	`const fail=(id,e)=>{const p=window.shelld[id];if(p){delete window.shelld[id];p.b(e instanceof Error?e:new Error(String(e)))}};` +
	`window.shell=(method,...args)=>new Promise((a,b)=>{const id=window.shelld.push({a,b})-1;` +
	`Promise.resolve(window.__shell(method,id,JSON.stringify(args))).then(r=>{if(r&&r.error)fail(id,r.error)},e=>fail(id,e))})})()`

func getScripts(opt *options.Options, startURL string, reportLocation bool) []string {
	var scripts []string

	// the guard has to run before the bridge so it can stop a refused
	// document before window.shell exists
	if opt.NavigationDomains != nil {
		scripts = append(scripts, navigationGuardScript(opt.NavigationDomains, originOf(startURL)))
	}
	scripts = append(scripts, bridgeScript)

	// webview has no navigation event, so the page reports every new document
	// and the host pulls the window back if the gate refuses it
	if reportLocation {
		js := fmt.Sprintf("if(window===window.top)window.__shellLocation(location.href,%q)", opt.CurrentUrlSecret)
		scripts = append(scripts, js)
	}
	return scripts
}

// navigationGuardScript stops a top frame document outside allowed as soon as
// it starts, and cancels link clicks, form submits and window.open calls
// towards such hosts before they leave the page. It mirrors origin.IsAllowed;
// the host side stays authoritative.
func navigationGuardScript(allowed []string, startOrigin string) string {
	encoded, _ := json.Marshal(allowed)
	return fmt.Sprintf(`(()=>{const allowed=%s,startOrigin=%q;`+
		`const ok=u=>{let p;try{p=new URL(u,location.href)}catch(e){return false}`+
		`if(p.protocol==="javascript:")return true;const h=p.hostname.toLowerCase();`+
		`return p.origin===startOrigin||allowed.some(s=>h.endsWith(s))};`+
		`if(window===window.top&&!ok(location.href)){window.__shellBlocked=true;try{window.stop()}catch(e){}return}`+
		`const deny=u=>{if(window.__shellDenied)window.__shellDenied(String(u))};`+
		`addEventListener("click",e=>{const a=e.target&&e.target.closest&&e.target.closest("a[href]");`+
		`if(a&&!ok(a.href)){e.preventDefault();e.stopImmediatePropagation();deny(a.href)}},true);`+
		`addEventListener("submit",e=>{const f=e.target;if(f&&f.action&&!ok(f.action)){e.preventDefault();e.stopImmediatePropagation();deny(f.action)}},true);`+
		`const open=window.open;window.open=function(u,...rest){if(u!==undefined&&u!==""&&!ok(u)){deny(u);return null}return open.call(window,u,...rest)}})()`,
		encoded, startOrigin)
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
