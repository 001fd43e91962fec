// Package config loads salespulse configuration.
//
// Values are resolved in increasing order of precedence:
//
//  1. Default() values
//  2. a YAML file (SALES_CONFIG_FILE, or salespulse.yaml in the working directory)
//  3. environment variables prefixed with SALES_
//
// Environment variable names follow the struct nesting, for example:
//
//	SALES_SERVER_PORT=9090
//	SALES_LOGGING_LEVEL=debug
//	SALES_PATHS_SOURCE_FILE=data/relatorio_vendas.csv
//	SALES_REPORT_CASHLESS_METHODS="Credit Card,Mobile Wallet"
//
// Ingest rename rules and format profiles are list-valued and only come from
// the YAML file:
//
//	ingest:
//	  rename_rules:
//	    - from: "Prod line"
//	      to: "Product line"
//	  profiles:
//	    - name: tab-utf8
//	      delimiter: "\t"
//	      decimal_separator: "."
//	      encoding: utf-8
package config
