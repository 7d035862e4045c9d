package recognizer

// BankNames maps the three-digit bank code carried in a slip's digit line to
// the institution's registered name.
var BankNames = map[string]string{
	"001": "BANCO DO BRASIL S.A.",
	"033": "BANCO SANTANDER BRASIL S.A.",
	"077": "BANCO INTER S.A.",
	"104": "CAIXA ECONÔMICA FEDERAL",
	"208": "BANCO BTG PACTUAL S.A.",
	"212": "BANCO ORIGINAL S.A.",
	"224": "BANCO FIBRA S.A.",
	"237": "BANCO BRADESCO S.A.",
	"246": "BANCO ABC BRASIL S.A.",
	"260": "NU PAGAMENTOS S.A. (NUBANK)",
	"290": "PAGSEGURO INTERNET S.A.",
	"336": "BANCO C6 S.A.",
	"341": "ITAÚ UNIBANCO S.A.",
	"399": "HSBC BANK BRASIL S.A.",
	"422": "BANCO SAFRA S.A.",
	"623": "BANCO PANAMERICANO S.A.",
	"634": "BANCO TRIÂNGULO S.A.",
	"655": "BANCO VOTORANTIM S.A.",
	"748": "BANCO COOPERATIVO SICREDI S.A.",
	"756": "BANCO COOPERATIVO DO BRASIL S.A. (BANCOOB)",
}
