package probe

import (
	"sort"
)

const (
	ToolInterfaces = "interfaces"
	ToolPorts      = "ports"
	ToolPing       = "ping"
	ToolCurl       = "curl"
)

const curlWriteOut = "\nStatus: %{http_code}\nTime: %{time_total}s"

type tool struct {
	target string
	argv   func(target string) [][]string
}

const (
	targetHost = "host"
	targetURL  = "url"
)

var tools = map[string]tool{
	ToolInterfaces: {
		argv: func(string) [][]string {
			return [][]string{{"ifconfig"}, {"ip", "addr", "show"}}
		},
	},
	ToolPorts: {
		argv: func(string) [][]string {
			return [][]string{{"netstat", "-tuln"}, {"ss", "-tuln"}}
		},
	},
	ToolPing: {
		target: targetHost,
		argv: func(host string) [][]string {
			return [][]string{{"ping", "-c", "3", host}}
		},
	},
	ToolCurl: {
		target: targetURL,
		argv: func(u string) [][]string {
			return [][]string{{"curl", "-s", "-w", curlWriteOut, u}}
		},
	},
}

func Tools() []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
