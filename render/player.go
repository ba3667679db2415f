package render

import "github.com/soundscape-lab/audioserver"

// Player is the front end the audio device calls once per buffer. It applies
// the Commands queued by the other threads to the Model and then renders.
// Player implements audioserver.AudioProcessor.
type Player struct {
	model  *Model
	broker *Broker
}

func NewPlayer(broker *Broker, model *Model) *Player {
	return &Player{model: model, broker: broker}
}

// Process applies all pending Commands and renders buffer. It is called from
// the device callback and never blocks.
func (p *Player) Process(buffer audioserver.AudioBuffer) {
	p.processMessages()
	p.model.Render(buffer)
}

func (p *Player) processMessages() {
loop:
	for { // process new commands
		select {
		case cmd := <-p.broker.ToAudio:
			if cmd != nil {
				cmd(p.model)
			}
		default:
			break loop
		}
	}
}
