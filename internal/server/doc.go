// Package server exposes the gate pass pipeline over HTTP.
//
// Routes:
//
//	GET  /                        form page, with a one-shot flash message
//	POST /submit                  run the pipeline, 303 to the pass URL
//	GET  /view/{date}/{filename}  download a published pass
//	GET  /healthz                 liveness probe
//
// Every request carries a correlation id, taken from the X-Request-Id
// header or generated, which is echoed in the response and attached to
// the pipeline context.
package server
