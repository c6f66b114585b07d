/*
Package ajax standardizes JSON replies for XHR-driven pages and restricts
selected controller actions to XMLHttpRequest callers.

Every reply is an Envelope. Regular replies carry the fixed keys

	{"success": bool, "successText": string, "errorText": string, ...extra}

where the two texts are translation keys resolved through an i18n.Translator;
a key with no catalog entry is logged and replaced by "". Redirect replies use
a different shape, {"redirect": url}, so clients must not assume one shape.
All envelopes are written with HTTP 200; failure is reported in-body.

Actions registered with the AjaxOnly policy answer 404 to anything that is not
an XMLHttpRequest, so their existence is not revealed to page navigations.
*/
package ajax
