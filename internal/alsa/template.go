package alsa

import (
	"bytes"
	"fmt"
	"text/template"
)

var asoundTemplate = template.Must(template.New("asound.conf").Parse(`
pcm.speakerbonnet {
   type hw card {{.Card}}
}

pcm.dmixer {
   type dmix
   ipc_key {{.IPCKey}}
   ipc_perm {{.IPCPerm}}
   slave {
     pcm "speakerbonnet"
     period_time {{.PeriodTime}}
     period_size {{.PeriodSize}}
     buffer_size {{.BufferSize}}
     rate {{.Rate}}
     channels {{.Channels}}
   }
}

ctl.dmixer {
    type hw card {{.Card}}
}

pcm.softvol {
    type softvol
    slave.pcm "dmixer"
    control.name "{{.Control}}"
    control.card {{.Card}}
}

ctl.softvol {
    type hw card {{.Card}}
}

pcm.!default {
    type             plug
    slave.pcm       "softvol"
}
`))

// Render produces the asound.conf content for cfg after applying defaults.
func Render(cfg MixerConfig) (string, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := asoundTemplate.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("alsa: render: %w", err)
	}
	return buf.String(), nil
}
