package whatsapp

type checkNumbersInput struct {
	Numbers []string `json:"numbers"`
}

// NumberCheck é um item da resposta de /chat/whatsappNumbers.
type NumberCheck struct {
	Exists bool   `json:"exists"`
	JID    string `json:"jid"`    // Ex: "5511999999999@s.whatsapp.net"
	Number string `json:"number"` // Ex: "5511999999999"
}

type sendTextInput struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type SendTextResponse struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

type connectionStateResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"` // open, connecting, close
	} `json:"instance"`
}

type ErrorResponse struct {
	Status   int    `json:"status"`
	Error    string `json:"error"`
	Response struct {
		Message any `json:"message"`
	} `json:"response"`
}
