package models

// FAQ is a question the assistant can answer.
type FAQ struct {
	Question string   `bson:"question" json:"question" yaml:"question" validate:"required,max=200"`
	Answer   string   `bson:"answer" json:"answer" yaml:"answer" validate:"required,max=2000"`
	Aliases  []string `bson:"aliases" json:"aliases" yaml:"aliases" validate:"max=10,dive,max=200"`
	Category string   `bson:"category" json:"category" yaml:"category" validate:"required,max=50"`
}

// AssistantDocument is persisted as "bot_assistant".
type AssistantDocument struct {
	FAQs              []FAQ               `bson:"faqs" json:"faqs"`
	AssistantChannels map[string][]string `bson:"assistant_channels" json:"assistant_channels"`
}

// Normalize implements database.Normalizer
func (d *AssistantDocument) Normalize() {
	if d.AssistantChannels == nil {
		d.AssistantChannels = make(map[string][]string)
	}
	for i := range d.FAQs {
		if d.FAQs[i].Aliases == nil {
			d.FAQs[i].Aliases = []string{}
		}
	}
}
