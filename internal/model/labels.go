package model

// TypeDescriptor is the display metadata for a campaign type.
type TypeDescriptor struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// StatusDescriptor is the display metadata for a campaign status.
type StatusDescriptor struct {
	Label string `json:"label"`
}

// ChannelDescriptor is the display metadata for a touchpoint channel.
type ChannelDescriptor struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// The lookup tables below are initialized once and treated as read-only
// configuration. Labels are product copy and surface verbatim in
// exported documents, so they stay in the product's language.

var CampaignTypes = map[CampaignType]TypeDescriptor{
	TypeNewArrival:  {Label: "Nuevos Ingresos", Icon: "✨", Description: "Entrada de stock reciente"},
	TypeLaunch:      {Label: "Lanzamiento", Icon: "🚀", Description: "Frecuencia Mensual"},
	TypePromotion:   {Label: "Promoción", Icon: "🏷️", Description: "A demanda / Ofertas"},
	TypeInformative: {Label: "Informativo", Icon: "📢", Description: "Semanal / Mensual"},
	TypeCyber:       {Label: "Cyber Event", Icon: "⚡", Description: "Eventos Masivos Digitales"},
}

var Statuses = map[CampaignStatus]StatusDescriptor{
	StatusPlanned:     {Label: "Programada"},
	StatusSent:        {Label: "Enviada"},
	StatusRescheduled: {Label: "Cambio de Fecha"},
}

var Channels = map[TouchpointChannel]ChannelDescriptor{
	ChannelNone:     {Label: "Sin definir", Icon: "⚪"},
	ChannelEmail:    {Label: "Email Marketing", Icon: "📧"},
	ChannelSMS:      {Label: "SMS", Icon: "📱"},
	ChannelWhatsApp: {Label: "WhatsApp", Icon: "💬"},
	ChannelSocial:   {Label: "Redes Sociales", Icon: "📸"},
	ChannelPush:     {Label: "App Push", Icon: "🔔"},
}

// TypeLabel returns the display label for a campaign type, or the
// generic fallback for unknown values.
func TypeLabel(t CampaignType) string {
	if d, ok := CampaignTypes[t]; ok {
		return d.Label
	}
	return "Campaña"
}

// ChannelLabel returns the display label for a channel, falling back
// to the raw channel value for unknown ones.
func ChannelLabel(c TouchpointChannel) string {
	if d, ok := Channels[c]; ok {
		return d.Label
	}
	return string(c)
}

// MonthNames maps time.Month values (1-based) to display names.
var MonthNames = [13]string{"",
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// DefaultBrands is the brand set presented on first run, before the
// store holds any brands of its own. It is never written back
// automatically.
var DefaultBrands = []Brand{
	{ID: "b1", Name: "Lumina Tech", Color: "blue", Hex: "#3b82f6", Industry: "Tecnología"},
	{ID: "b2", Name: "Verde Vida", Color: "green", Hex: "#22c55e", Industry: "Alimentación Saludable"},
	{ID: "b3", Name: "Solaris Moda", Color: "orange", Hex: "#f97316", Industry: "Moda"},
	{ID: "b4", Name: "Aqua Pure", Color: "cyan", Hex: "#06b6d4", Industry: "Bebidas"},
	{ID: "b5", Name: "Zen Spa", Color: "teal", Hex: "#14b8a6", Industry: "Bienestar"},
	{ID: "b6", Name: "Rojo Motor", Color: "red", Hex: "#ef4444", Industry: "Automotriz"},
	{ID: "b7", Name: "Nova Bank", Color: "indigo", Hex: "#6366f1", Industry: "Finanzas"},
	{ID: "b8", Name: "Dulce Hogar", Color: "pink", Hex: "#ec4899", Industry: "Decoración"},
	{ID: "b9", Name: "Urban Fit", Color: "lime", Hex: "#84cc16", Industry: "Fitness"},
	{ID: "b10", Name: "Cafe Aroma", Color: "amber", Hex: "#f59e0b", Industry: "Cafetería"},
	{ID: "b11", Name: "Pet Amigo", Color: "yellow", Hex: "#eab308", Industry: "Mascotas"},
	{ID: "b12", Name: "Sky Travel", Color: "sky", Hex: "#0ea5e9", Industry: "Turismo"},
	{ID: "b13", Name: "Violet Cosmetics", Color: "violet", Hex: "#8b5cf6", Industry: "Belleza"},
	{ID: "b14", Name: "Gamer Pro", Color: "purple", Hex: "#a855f7", Industry: "Gaming"},
}

// BrandLookup builds an id-keyed index over a brand snapshot.
func BrandLookup(brands []Brand) map[string]Brand {
	m := make(map[string]Brand, len(brands))
	for _, b := range brands {
		m[b.ID] = b
	}
	return m
}
