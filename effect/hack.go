package effect

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lixenwraith/termsim/render"
)

const (
	hackPrompt    = "root@kali:~# "
	hackTypeRate  = 60 // characters per second
	rockyouSize   = 14344399
	hexDumpLength = 1500 * time.Millisecond
)

var hackInitSteps = []string{
	"LOADING EXPLOIT DATABASE",
	"INITIALIZING PACKET CRAFTER",
	"SPOOFING MAC ADDRESS",
	"ESTABLISHING PROXY CHAIN",
}

type service struct {
	port    int
	name    string
	version string
}

var hackServices = []service{
	{21, "ftp", "vsftpd 3.0.3"},
	{22, "ssh", "OpenSSH 8.2p1 Ubuntu 4ubuntu0.5"},
	{80, "http", "Apache httpd 2.4.41"},
	{443, "https", "nginx 1.18.0"},
	{445, "microsoft-ds", "Samba smbd 4.6.2"},
	{3306, "mysql", "MySQL 5.7.33"},
	{3389, "ms-wbt-server", "xrdp"},
	{5432, "postgresql", "PostgreSQL DB 12.4"},
	{6379, "redis", "Redis key-value store 6.0.9"},
	{8080, "http-proxy", "Apache Tomcat 9.0.31"},
}

var (
	hackHosts     = []string{"fw-edge01.corp.local", "db-prod-03.megacorp.internal", "mail.initech.com", "vpn-gw.cyberdyne.net", "hr-portal.umbrella.local", "build-srv.tyrell.io"}
	hackUsers     = []string{"admin", "root", "svc_backup", "jenkins", "oracle", "deploy"}
	hackPasswords = []string{"password123", "letmein", "Summer2023!", "qwerty", "dragon", "monkey", "admin123", "trustno1", "P@ssw0rd", "iloveyou", "welcome1", "shadow", "football", "123456789", "sunshine"}
)

// target is one fake host attacked per round
type target struct {
	ip       string
	host     string
	user     string
	password string
	hash     string
	services []service
}

// stage is one step of an attack round; it returns true once finished
type stage func() bool

// hackEffect plays a penetration test console: recon, brute force, hash
// cracking and exfiltration against a fresh seeded target each round
type hackEffect struct {
	base
	intro     intro
	introDone bool

	stages      []stage
	stageIdx    int
	compromised int
}

func newHack(cfg Config) *hackEffect {
	e := &hackEffect{base: newBase(cfg)}
	e.intro = intro{
		steps:    hackInitSteps,
		style:    styleYellow,
		barWidth: 40,
		stepDur:  time.Second,
		done:     "[+] SYSTEM INITIALIZED - COMMENCING SEQUENCE",
		doneDur:  time.Second,
	}
	printBanner(&e.con, 58, []string{
		"PENETRATION TESTING FRAMEWORK v2.7.3",
		"[ AUTHORIZED ENGAGEMENT ] - RED TEAM OPERATIONS",
	}, styleGreen.Bold())
	return e
}

func (e *hackEffect) NextFrame() render.Frame {
	if e.wait == 0 && e.con.advanceTyping() {
		e.signal(render.CueKey)
	} else {
		e.advance(e.script)
	}
	f := e.emit()
	e.tick++
	return f
}

func (e *hackEffect) script() {
	if !e.introDone {
		if !e.intro.advance(&e.base) {
			return
		}
		e.introDone = true
	}

	if e.stageIdx >= len(e.stages) {
		e.stages = e.round(e.newTarget())
		e.stageIdx = 0
	}
	if e.stages[e.stageIdx]() {
		e.stageIdx++
	}
}

func (e *hackEffect) newTarget() target {
	t := target{
		ip:       fmt.Sprintf("10.%d.%d.%d", e.randint(0, 254), e.randint(0, 254), e.randint(1, 254)),
		host:     pick(e.rng, hackHosts),
		user:     pick(e.rng, hackUsers),
		password: pick(e.rng, hackPasswords),
		hash:     fmt.Sprintf("%016x%016x", e.rng.Uint64(), e.rng.Uint64()),
	}

	// ssh is always open, it is the brute force entry point
	t.services = append(t.services, hackServices[1])
	for _, i := range e.rng.Perm(len(hackServices))[:e.randint(3, 6)] {
		if hackServices[i].port != 22 {
			t.services = append(t.services, hackServices[i])
		}
	}
	sort.Slice(t.services, func(i, j int) bool { return t.services[i].port < t.services[j].port })
	return t
}

func (e *hackEffect) round(t target) []stage {
	return []stage{
		e.command("nmap -sS -sV -T4 -p- " + t.ip),
		e.once(func() {
			e.con.println(fmt.Sprintf("Starting Nmap 7.94 ( https://nmap.org ) at %s", e.now().Format("2006-01-02 15:04 MST")), stylePlain)
			e.con.println(fmt.Sprintf("Nmap scan report for %s (%s)", t.host, t.ip), stylePlain)
			e.con.println("Host is up (0.0021s latency).", stylePlain)
			e.con.println("PORT      STATE SERVICE        VERSION", styleWhite.Bold())
			e.sleep(400 * time.Millisecond)
		}),
		e.portLines(t),
		e.once(func() {
			e.con.println(fmt.Sprintf("Nmap done: 1 IP address (1 host up) scanned in %.2f seconds", e.uniform(8, 40)), stylePlain)
			e.sleep(time.Second)
		}),
		e.command(fmt.Sprintf("hydra -l %s -P /usr/share/wordlists/rockyou.txt ssh://%s", t.user, t.ip)),
		e.bruteForce(t),
		e.command("hashcat -m 1000 -a 0 ntlm.hash /usr/share/wordlists/rockyou.txt"),
		e.crack(t),
		e.command(fmt.Sprintf("scp -r %s@%s:/var/backups ./loot && xxd loot/db.tar.gz | head", t.user, t.ip)),
		e.hexDump(),
		e.transfer(t),
	}
}

// command types a shell command at the prompt
func (e *hackEffect) command(cmd string) stage {
	return func() bool {
		rate := max(int(hackTypeRate*e.interval.Seconds()), 1)
		e.con.typeLine(hackPrompt+cmd, styleGreen, rate)
		return true
	}
}

func (e *hackEffect) once(fn func()) stage {
	return func() bool {
		fn()
		return true
	}
}

func (e *hackEffect) portLines(t target) stage {
	i := 0
	return func() bool {
		s := t.services[i]
		e.con.println(fmt.Sprintf("%-9s open  %-14s %s", fmt.Sprintf("%d/tcp", s.port), s.name, s.version), styleGreen)
		e.sleep(time.Duration(e.randint(150, 450)) * time.Millisecond)
		i++
		return i == len(t.services)
	}
}

func (e *hackEffect) bruteForce(t target) stage {
	attempts := 0
	total := e.randint(30, 60)
	tried := 0
	return func() bool {
		if attempts == 0 {
			e.con.println(fmt.Sprintf("[DATA] max 16 tasks per 1 server, overall 16 tasks, %d login tries (l:1/p:%d)", rockyouSize, rockyouSize), stylePlain)
		}
		attempts++
		tried += e.randint(50, 400)
		if attempts < total {
			e.con.setStatus(render.Styled(fmt.Sprintf("[ATTEMPT] target %s - login \"%s\" - pass \"%s\" - %d of %d",
				t.ip, t.user, pick(e.rng, hackPasswords), tried, rockyouSize), styleGray))
			return false
		}

		e.con.setStatus(nil)
		e.con.println(fmt.Sprintf("[22][ssh] host: %s   login: %s   password: %s", t.ip, t.user, t.password), styleGreen.Bold())
		e.con.println("1 of 1 target successfully completed, 1 valid password found", stylePlain)
		e.signal(render.CueChime)
		e.sleep(time.Second)
		return true
	}
}

func (e *hackEffect) crack(t target) stage {
	n := 0
	steps := e.ticks(time.Duration(e.randint(2, 4)) * time.Second)
	rate := e.uniform(800, 4000)
	return func() bool {
		n++
		p := float64(n) / float64(steps)
		if n < steps {
			e.con.setStatus(render.Styled(fmt.Sprintf("[*] Cracking %s: %s (%.1f MH/s)", t.hash, progressBar(p, 30), rate*e.uniform(0.9, 1.1)), styleYellow))
			return false
		}

		e.con.setStatus(nil)
		e.con.println(fmt.Sprintf("%s:%s", t.hash, t.password), styleGreen.Bold())
		e.con.println("Status...........: Cracked", styleGreen)
		e.con.println("Recovered........: 1/1 (100.00%) Digests", styleGreen)
		e.signal(render.CueChime)
		e.sleep(time.Second)
		return true
	}
}

func (e *hackEffect) hexDump() stage {
	lines := e.ticks(hexDumpLength)
	offset := 0
	return func() bool {
		var hex, ascii strings.Builder
		for i := 0; i < 16; i++ {
			b := byte(e.rng.Intn(256))
			if i > 0 && i%2 == 0 {
				hex.WriteByte(' ')
			}
			fmt.Fprintf(&hex, "%02x", b)
			if b >= 0x20 && b < 0x7f {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}
		e.con.println(fmt.Sprintf("%08x: %s  %s", offset, hex.String(), ascii.String()), styleGreen.Dim())
		offset += 16
		lines--
		return lines <= 0
	}
}

func (e *hackEffect) transfer(t target) stage {
	n := 0
	steps := e.ticks(time.Duration(e.randint(1, 3)) * time.Second)
	size := e.randint(40, 900)
	return func() bool {
		n++
		p := float64(n) / float64(steps)
		if n < steps {
			e.con.setStatus(render.Styled(fmt.Sprintf("[*] Exfiltrating loot/db.tar.gz: %s %.1f MB/s", progressBar(p, 30), e.uniform(8, 40)), styleCyan))
			return false
		}

		e.con.setStatus(nil)
		e.compromised++
		e.con.blank()
		e.con.println(fmt.Sprintf("[+] ACCESS GRANTED - %s (%s)", t.host, t.ip), styleGreen.Bold())
		e.con.println(fmt.Sprintf("[+] %d MB exfiltrated, covering tracks...", size), styleGreen)
		e.con.blank()
		e.signal(render.CueChime)
		e.sleep(2 * time.Second)
		return true
	}
}

// Summary is the emergency shutdown notice with the session tally
func (e *hackEffect) Summary() []render.Line {
	return append(hackShutdown(), render.Styled(fmt.Sprintf("Targets compromised: %d", e.compromised), styleYellow))
}
