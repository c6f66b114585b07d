/*
Package go-ajax-boot is a small framework for XHR-driven web applications in Go.

Official Repository: https://github.com/SaiNageswarS/go-ajax-boot

go-ajax-boot provides:
- A uniform JSON envelope for AJAX replies with translated messages
- AjaxOnly actions that answer 404 to plain page navigations
- Fluent server builder with a reflection-based dependency injection container
- Translation catalogs from INI files, Postgres or MongoDB
- Templated email over SMTP, optionally made durable with Temporal
- Secret loading from Azure Key Vault and GCP Secret Manager

Quick Start:

	go install github.com/SaiNageswarS/go-ajax-boot/cmd/ajaxboot@latest
	ajaxboot serve --config config.ini

Package Import:

	import "github.com/SaiNageswarS/go-ajax-boot/server"
	import "github.com/SaiNageswarS/go-ajax-boot/ajax"
	import "github.com/SaiNageswarS/go-ajax-boot/i18n"
	import "github.com/SaiNageswarS/go-ajax-boot/mailer"

Author: SaiNageswarS
License: Apache-2.0
*/
package boot
